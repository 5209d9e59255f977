// Package logger wraps zerolog behind a process-wide logger. Configure
// is called once at startup; the package-level event helpers log through
// whatever it installed.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel names a zerolog level as it appears in config files.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// zerologLevel maps a configured level name onto zerolog's scale.
// Unknown names fall back to info rather than failing startup.
func (l LogLevel) zerologLevel() zerolog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config controls the process-wide logger.
type Config struct {
	Level  LogLevel
	Pretty bool      // console writer instead of JSON
	Output io.Writer // defaults to os.Stdout
}

// Logger wraps a zerolog.Logger so callers can carry a scoped instance
// instead of logging through the package-level default.
type Logger struct {
	zerolog.Logger
}

// NewLogger wraps an existing zerolog.Logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{Logger: logger}
}

var defaultLogger zerolog.Logger

// Configure installs the process-wide logger. It also replaces zerolog's
// global log.Logger so libraries logging through it share the same output.
func Configure(config Config) {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(config.Level.zerologLevel())

	writer := out
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Debug starts a debug-level event on the process-wide logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info-level event on the process-wide logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warn-level event on the process-wide logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error-level event on the process-wide logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a fatal-level event; the process exits once it is sent.
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// WithField derives a logger carrying one extra field.
func WithField(key string, value interface{}) zerolog.Logger {
	return defaultLogger.With().Interface(key, value).Logger()
}

// WithFields derives a logger carrying every field in the map.
func WithFields(fields map[string]interface{}) zerolog.Logger {
	context := defaultLogger.With()
	for k, v := range fields {
		context = context.Interface(k, v)
	}
	return context.Logger()
}

// init gives code that logs before Configure runs a sane default.
func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
	})
}
