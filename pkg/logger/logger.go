package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. Production defaults to JSON at info level,
// everything else to text at debug level; level and format override both.
func Init(env string, opts ...Option) {
	cfg := options{level: slog.LevelDebug, json: false, out: os.Stdout}
	if env == "production" {
		cfg.level = slog.LevelInfo
		cfg.json = true
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	defaultLogger = slog.New(NewHandler(cfg.out, cfg.json, cfg.level))
	slog.SetDefault(defaultLogger)
}

// NewHandler builds a JSON or text handler that also writes the fields
// stored in the context by With.
func NewHandler(w io.Writer, json bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return contextHandler{slog.NewJSONHandler(w, opts)}
	}
	return contextHandler{slog.NewTextHandler(w, opts)}
}

type options struct {
	level slog.Level
	json  bool
	out   io.Writer
}

type Option func(*options)

func WithLevel(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug":
			o.level = slog.LevelDebug
		case "info":
			o.level = slog.LevelInfo
		case "warn":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		}
	}
}

func WithFormat(format string) Option {
	return func(o *options) {
		switch strings.ToLower(format) {
		case "json":
			o.json = true
		case "text":
			o.json = false
		}
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
