package config

import (
	"io"
	"log/slog"
	"time"
)

// NewLogHandlerForTest is exported for testing
func NewLogHandlerForTest(format string, w io.Writer, level slog.Level) (slog.Handler, error) {
	return newLogHandler(format, w, level)
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, alarmChannel string) *Slack {
	return &Slack{botToken: botToken, alarmChannel: alarmChannel}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewAlarmForTest creates an Alarm config for testing purposes
func NewAlarmForTest(scanInterval time.Duration, strictBatch bool) *Alarm {
	return &Alarm{scanInterval: scanInterval, strictBatch: strictBatch}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}
