package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	ebmonitor "github.com/jmbenlloch/ebmonitor/pkg"
)

var logger *slog.Logger

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func main() {
	fileOut := flag.String("out", "sim.h5", "Output HDF5 file")
	nEvents := flag.Int("events", 100, "Number of events to generate")
	runNumber := flag.Int("run", 1, "Run number")
	hitFraction := flag.Float64("hits", 0.01, "Fraction of crystals read out per event")
	pnFraction := flag.Float64("pns", 0.5, "Fraction of PN diodes read out per event")
	deadSM := flag.Int("dead-sm", 0, "Supermodule without crystal readout, 0 for none")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	compression := flag.Int("compression", 4, "Deflate compression level")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	writer, err := ebmonitor.NewWriter(*fileOut, *compression)
	if err != nil {
		logger.Error(fmt.Sprintf("error creating writer: %v", err))
		os.Exit(1)
	}

	for i := 0; i < *nEvents; i++ {
		event := simulateEvent(rng, *runNumber, uint32(i+1), *hitFraction, *pnFraction, *deadSM)
		if err := writer.WriteEvent(event, uint64(time.Now().UnixMilli())); err != nil {
			logger.Error(fmt.Sprintf("error writing event %d: %v", event.ID, err))
			break
		}
	}

	if err := writer.Close(); err != nil {
		logger.Error(fmt.Sprintf("error closing writer: %v", err))
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("%d events written to %s", writer.EvtCounter, *fileOut))
}

func simulateEvent(rng *rand.Rand, run int, id uint32, hitFraction float64, pnFraction float64, deadSM int) *ebmonitor.MemoryEvent {
	event := ebmonitor.NewMemoryEvent(run, id)
	event.AddDigis(ebmonitor.DefaultDigiCollection)
	event.AddPnDiodeDigis(ebmonitor.DefaultPnDiodeCollection)

	for ieta := -ebmonitor.MaxIEta; ieta <= ebmonitor.MaxIEta; ieta++ {
		if ieta == 0 {
			continue
		}
		for iphi := 1; iphi <= ebmonitor.MaxIPhi; iphi++ {
			if rng.Float64() >= hitFraction {
				continue
			}
			detID, err := ebmonitor.NewEBDetID(ieta, iphi)
			if err != nil {
				continue
			}
			if detID.ISM() == deadSM {
				continue
			}
			event.AddDigis(ebmonitor.DefaultDigiCollection, detID)
		}
	}

	for dcc := ebmonitor.FirstBarrelDCC; dcc <= ebmonitor.LastBarrelDCC; dcc++ {
		for pn := 1; pn <= ebmonitor.PnDiodesPerMem; pn++ {
			if rng.Float64() >= pnFraction {
				continue
			}
			pnID, err := ebmonitor.NewPnDiodeDetID(dcc, pn)
			if err != nil {
				continue
			}
			event.AddPnDiodeDigis(ebmonitor.DefaultPnDiodeCollection, pnID)
		}
	}
	return event
}
