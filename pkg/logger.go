package ebmonitor

type Logger interface {
	Info(message string, module string)
	Debug(message string, module string)
	Warning(message string, module string)
	Error(string)
}

// nopLogger is used when a task is built without a logger.
type nopLogger struct{}

func (nopLogger) Info(string, string)    {}
func (nopLogger) Debug(string, string)   {}
func (nopLogger) Warning(string, string) {}
func (nopLogger) Error(string)           {}
