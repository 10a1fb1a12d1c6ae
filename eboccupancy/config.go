package main

import (
	"encoding/json"
	"fmt"
	"os"

	ebmonitor "github.com/jmbenlloch/ebmonitor/pkg"
)

func LoadConfiguration(filename string) (ebmonitor.Configuration, error) {
	config := ebmonitor.DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config ebmonitor.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("Plot dir: %s", config.PlotDir), "config")
	logger.Info(fmt.Sprintf("Digi collection: %s", config.DigiCollection), "config")
	logger.Info(fmt.Sprintf("PN diode collection: %s", config.PnDiodeCollection), "config")
	logger.Info(fmt.Sprintf("Task label: %s", config.TaskLabel), "config")
	logger.Info(fmt.Sprintf("Folder: %s", config.Folder), "config")
	logger.Info(fmt.Sprintf("Enable cleanup: %t", config.EnableCleanup), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
