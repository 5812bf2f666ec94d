package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oxhq/lqlroute/internal/config"
)

// newServeStoreCmd opens (and migrates) the configured rule store and
// reports its readiness. A real routing supervisor would keep the
// connection open and serve rule CRUD over some transport; that transport
// is out of this module's scope (spec.md §1), so this subcommand exists to
// validate the store is reachable and migrated, which is the part this
// module owns.
func newServeStoreCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-store",
		Short: "Connect to and migrate the configured rule store, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			_ = s
			log.Info().Str("dsn", cfg.StoreDSN).Msg("rule store ready")
			fmt.Println("rule store ready")
			return nil
		},
	}
}
