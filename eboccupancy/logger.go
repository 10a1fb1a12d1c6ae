package main

import (
	"log/slog"
)

// Logger sends informational records to InfoLog and errors to ErrorLog.
// Debug records are only emitted with verbosity above 1.
type Logger struct {
	InfoLog   *slog.Logger
	ErrorLog  *slog.Logger
	Verbosity int
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Debug(message string, module string) {
	if l.Verbosity > 1 {
		l.InfoLog.Debug(message, "module", module)
	}
}

func (l Logger) Warning(message string, module string) {
	l.InfoLog.Warn(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
