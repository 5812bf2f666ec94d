// Package logging configures the process-wide zerolog logger used by the
// store and CLI boundaries. The parser and evaluator stay silent on their
// own hot path; this package is wired in only at the edges.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls the global logger's verbosity and output shape.
type Options struct {
	// Level is one of "trace", "debug", "info", "warn", "error".
	Level string

	// JSON enables structured line-delimited JSON output. Console (human
	// readable, colorized) output is used otherwise.
	JSON bool

	// Tags are additional fields attached to every log line, e.g. a build
	// commit hash or environment name.
	Tags map[string]string
}

// Configure sets the global zerolog logger from opts. It is meant to run
// once at process startup, before any component logs anything.
func Configure(opts Options) error {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := log.Logger
	if !opts.JSON {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := logger.With()
	for k, v := range opts.Tags {
		ctx = ctx.Str(k, v)
	}
	log.Logger = ctx.Logger()
	return nil
}
