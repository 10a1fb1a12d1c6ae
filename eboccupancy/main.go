package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	ebmonitor "github.com/jmbenlloch/ebmonitor/pkg"
	sqlx "github.com/jmoiron/sqlx"
)

var dbConn *sqlx.DB
var configuration ebmonitor.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("in", "", "Input HDF5 file, overrides file_in")
	plotDir := flag.String("plots", "", "Directory for occupancy plots, overrides plot_dir")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	if *fileIn != "" {
		configuration.FileIn = *fileIn
	}
	if *plotDir != "" {
		configuration.PlotDir = *plotDir
	}

	VerbosityLevel = configuration.Verbosity
	logger.Verbosity = VerbosityLevel
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	var geometry ebmonitor.Geometry
	if configuration.NoDB {
		geometry = ebmonitor.NewBarrelGeometry()
	} else {
		dbConn, err = ebmonitor.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connection to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()
		geometry = ebmonitor.NewDBGeometry(dbConn, logger, VerbosityLevel)
	}

	fileReader, err := ebmonitor.NewHDF5Reader(configuration.FileIn,
		[]string{configuration.DigiCollection}, []string{configuration.PnDiodeCollection}, logger)
	if err != nil {
		message := fmt.Errorf("Error opening input: %w", err)
		logger.Error(message.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Run %d, number of events: %d", fileReader.RunNumber, fileReader.NumEvents())
		logger.Info(message, "main")
	}

	store := ebmonitor.NewMemoryStore()
	task := ebmonitor.NewOccupancyTask(configuration, geometry, store, logger)
	reader := NewEventReader(fileReader, configuration, logger)

	start := time.Now()
	task.OnRunStart()
	for {
		event, err := reader.getNextEvent()
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error reading event: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		processEvent(task, event)
	}

	if configuration.PlotDir != "" {
		files, err := ebmonitor.RenderOccupancy(store, task.Folder(), configuration.PlotDir)
		if err != nil {
			message := fmt.Errorf("error rendering occupancy maps: %w", err)
			logger.Error(message.Error())
		}
		logger.Info(fmt.Sprintf("%d occupancy maps written to %s", len(files), configuration.PlotDir), "main")
	}

	task.OnRunEnd()

	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "main")
}

// processEvent runs the task on one event. A failing event is logged and
// discarded, the run goes on with the next one.
func processEvent(task *ebmonitor.OccupancyTask, event *ebmonitor.MemoryEvent) {
	defer func() {
		if r := recover(); r != nil {
			errMessage := fmt.Errorf("occupancy task recovered from panic on event %d: %v", event.ID, r)
			logger.Error(errMessage.Error())
		}
	}()

	if err := task.OnEvent(event); err != nil {
		message := fmt.Errorf("discarding event %d: %w", event.ID, err)
		logger.Error(message.Error())
	}
}
