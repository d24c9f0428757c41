package lumber

import (
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
)

// Fields Type to pass when we want to call WithFields for structured logging
type Fields map[string]interface{}

const (
	// Debug has verbose message
	Debug = "debug"
	// Info is default log level
	Info = "info"
	// Warn is for logging messages about possible issues
	Warn = "warn"
	// Error is for logging errors
	Error = "error"
	// Fatal is for logging fatal messages. The sytem shutsdown after logging the message.
	Fatal = "fatal"
)

const (
	// InstanceZapLogger selects the zap backed logger.
	InstanceZapLogger int = iota
	// InstanceLogrusLogger selects the logrus backed logger.
	InstanceLogrusLogger
)

// Logger is our contract for the logger
type Logger interface {
	Debugf(format string, args ...interface{})

	Infof(format string, args ...interface{})

	Warnf(format string, args ...interface{})

	Errorf(format string, args ...interface{})

	Fatalf(format string, args ...interface{})

	Panicf(format string, args ...interface{})

	WithFields(keyValues Fields) Logger
}

// LoggingConfig stores the config for the logger
// For some loggers there can only be one level across writers, for such the level of Console is picked by default
type LoggingConfig struct {
	EnableConsole     bool
	ConsoleJSONFormat bool
	ConsoleLevel      string
	EnableFile        bool
	FileJSONFormat    bool
	FileLevel         string
	FileLocation      string
}

// NewLogger returns an instance of logger
func NewLogger(config *LoggingConfig, verbose bool, loggerInstance int) (Logger, error) {
	if verbose {
		config.ConsoleLevel = Debug
		config.FileLevel = Debug
	}
	switch loggerInstance {
	case InstanceZapLogger:
		return newZapLogger(config)
	case InstanceLogrusLogger:
		return newLogrusLogger(config)
	default:
		return nil, errs.ErrInvalidLoggerInstance
	}
}
