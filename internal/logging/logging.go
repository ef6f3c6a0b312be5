// Package logging provides structured logging setup for healthsync using zerolog.
//
// Loggers are created once at CLI startup and carried through context.Context so
// that every component (API client, cache store, sync orchestrator) logs with a
// consistent component tag and request correlation fields.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output destinations supported by Config.Output.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Config describes how the root logger should be constructed.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Invalid values fall back to "info".
	Level string

	// Format is "console" for human-readable output or "json" for structured output.
	Format string

	// Output selects the destination: "stderr" (default), "stdout", or "file".
	Output string

	// File is the log file path, used when Output is "file".
	File string

	// Caller enables caller annotation on every event.
	Caller bool
}

// Result holds the constructed logger plus file-handle bookkeeping so callers
// can close the log file on shutdown.
type Result struct {
	Logger    zerolog.Logger
	UsingFile bool
	FilePath  string

	file *os.File
}

// Close releases the log file handle if one was opened.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds the root logger from cfg. File-open failures degrade to stderr
// rather than failing startup; the returned Result records whether the file
// destination is actually in use.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	result := Result{}

	switch cfg.Output {
	case OutputStdout:
		out = os.Stdout
	case OutputFile:
		if cfg.File != "" {
			file, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if openErr == nil {
				out = file
				result.UsingFile = true
				result.FilePath = cfg.File
				result.file = file
			} else {
				fmt.Fprintf(os.Stderr, "Warning: could not open log file %s, logging to stderr: %v\n",
					cfg.File, openErr)
			}
		}
	}

	if cfg.Format == "console" && !result.UsingFile {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	builder := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		builder = builder.Caller()
	}
	result.Logger = builder.Logger()
	return result
}

// ComponentLogger returns a child logger tagged with the given component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when none
// was attached. Components should never log through a nil logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
