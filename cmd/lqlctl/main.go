// Command lqlctl is the LQL command-line tool: parse queries against a
// schema, evaluate them against a sample event, and manage the rules
// persisted in a rule store.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oxhq/lqlroute/internal/config"
	"github.com/oxhq/lqlroute/internal/evaluator"
	"github.com/oxhq/lqlroute/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	if err := logging.Configure(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogFormat == "json"}); err != nil {
		fmt.Fprintf(os.Stderr, "lqlctl: invalid log level %q: %v\n", cfg.LogLevel, err)
		os.Exit(1)
	}
	evaluator.ConfigureRegexCache(cfg.RegexCacheCapacity)

	root := &cobra.Command{
		Use:   "lqlctl",
		Short: "Parse, evaluate, and manage LQL routing rules",
	}
	root.AddCommand(newParseCmd(), newEvalCmd(), newRuleCmd(cfg), newServeStoreCmd(cfg))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("lqlctl failed")
		os.Exit(1)
	}
}
