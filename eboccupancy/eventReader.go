package main

import (
	"fmt"
	"io"

	ebmonitor "github.com/jmbenlloch/ebmonitor/pkg"
)

type eventSource interface {
	Next() (*ebmonitor.MemoryEvent, bool)
}

// EventReader applies the skip and max_events settings on top of an event source.
type EventReader struct {
	Source    eventSource
	EvtCount  int
	Skip      int
	MaxEvents int
	logger    Logger
}

func NewEventReader(source eventSource, config ebmonitor.Configuration, logger Logger) *EventReader {
	return &EventReader{Source: source, EvtCount: -1, Skip: config.Skip, MaxEvents: config.MaxEvents, logger: logger}
}

func (r *EventReader) getNextEvent() (*ebmonitor.MemoryEvent, error) {
	for {
		event, ok := r.Source.Next()
		if !ok {
			return nil, io.EOF
		}
		r.EvtCount++
		if r.EvtCount >= r.MaxEvents {
			r.logger.Debug("Max events reached", "eventReader")
			return nil, io.EOF
		}
		if r.EvtCount < r.Skip {
			message := fmt.Sprintf("Skipping event %d with ID %d", r.EvtCount, event.ID)
			r.logger.Debug(message, "eventReader")
			continue
		}
		message := fmt.Sprintf("Reading event %d with ID %d", r.EvtCount, event.ID)
		r.logger.Debug(message, "eventReader")
		return event, nil
	}
}
