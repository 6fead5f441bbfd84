package logger

import "gitlab.com/results-api.net/internal/adapter/logging"

var Logger = logging.NewZapLogger()

// Use replaces the process-wide logger, typically once at startup.
func Use(l *logging.ZapLogger) {
	Logger = l
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
