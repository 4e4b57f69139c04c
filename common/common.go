// Package common holds shared service metadata and logger setup used by the
// command-line entry points.
package common

import (
	"log/slog"
	"os"
)

// PackageName tags logs and metrics emitted by this service.
const PackageName = "scrt-strongbox"

// Version is set at build time via -ldflags.
var Version = "dev"

// LoggingOpts configures the process-wide logger.
type LoggingOpts struct {
	// Debug enables debug-level messages.
	Debug bool

	// JSON switches output to JSON format.
	JSON bool

	// Service is added as a 'service' tag to all log messages.
	Service string

	// Version is added as a 'version' tag to all log messages.
	Version string
}

// SetupLogger creates a structured logger writing to stderr.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}

	return log
}
