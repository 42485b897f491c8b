package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the shape of the root logger.
//   - Level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - Format: "json" for production, "pretty" for human-readable dev output
//   - File: optional path; when set, JSON lines are also written there with size-based rotation
//   - Service: value of the "service" field stamped on every entry
type Options struct {
	Level   string
	Format  string
	File    string
	Service string
}

// Setup initializes the global zerolog level and returns the root logger.
func Setup(opts Options) zerolog.Logger {
	var console io.Writer = os.Stdout
	if opts.Format == "pretty" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	writer := console
	if opts.File != "" {
		writer = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(writer).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}
