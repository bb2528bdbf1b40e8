package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const DefaultLogLevel = "info"

// Config holds logger configuration.
type Config struct {
	output  io.Writer
	level   zerolog.Level
	console bool
}

// Option configures the logger.
type Option func(*Config)

// WithLevel sets the logger level from its name.
func WithLevel(level string) Option {
	return func(cfg *Config) {
		cfg.level = ParseLevel(level)
	}
}

// WithOutput sets the output writer.
func WithOutput(output io.Writer) Option {
	return func(cfg *Config) {
		cfg.output = output
	}
}

// WithConsoleWriter switches between human-readable and JSON output.
func WithConsoleWriter(console bool) Option {
	return func(cfg *Config) {
		cfg.console = console
	}
}

// New creates a logger. Defaults: info level, stderr, console writer.
// Stdout is left to command output.
func New(opts ...Option) *zerolog.Logger {
	cfg := &Config{
		output:  os.Stderr,
		level:   zerolog.InfoLevel,
		console: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var out io.Writer = cfg.output
	if cfg.console {
		out = zerolog.ConsoleWriter{
			Out:          cfg.output,
			PartsExclude: []string{zerolog.TimestampFieldName},
		}
	}

	l := zerolog.New(out).Level(cfg.level).With().Timestamp().Logger()
	return &l
}

// Nop returns a logger that discards everything.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ParseLevel maps a level name to a zerolog level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
