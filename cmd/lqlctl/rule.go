package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/lqlroute/internal/config"
	"github.com/oxhq/lqlroute/internal/lql"
	"github.com/oxhq/lqlroute/internal/store"
)

func newRuleCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "rule",
		Short: "Manage persisted routing rules",
	}
	root.AddCommand(newRuleSaveCmd(cfg), newRuleListCmd(cfg), newRuleRmCmd(cfg))
	return root
}

func openStore(cfg *config.Config) (*store.Store, error) {
	db, err := store.Connect(cfg.StoreDSN, cfg.StoreDebug)
	if err != nil {
		return nil, fmt.Errorf("opening rule store: %w", err)
	}
	return store.New(db), nil
}

func newRuleSaveCmd(cfg *config.Config) *cobra.Command {
	var schemaPath, name, schemaRef string

	cmd := &cobra.Command{
		Use:   "save <query>",
		Short: "Parse a query and persist it as a named rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			rs, err := lql.Parse(args[0], sch)
			if err != nil {
				return err
			}

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			rec, err := s.SaveRule(schemaRef, name, args[0], rs)
			if err != nil {
				return err
			}
			fmt.Printf("saved rule %s\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a schema file (descriptors or sample metadata)")
	cmd.Flags().StringVar(&name, "name", "", "human-readable rule name")
	cmd.Flags().StringVar(&schemaRef, "schema-ref", "default", "identifier of the schema/table this rule targets")
	return cmd
}

func newRuleListCmd(cfg *config.Config) *cobra.Command {
	var schemaRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted rules for a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			rules, err := s.ListBySchema(schemaRef)
			if err != nil {
				return err
			}
			for _, r := range rules {
				fmt.Printf("%s\t%s\t%s\n", r.ID, r.Name, r.Query)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaRef, "schema-ref", "default", "identifier of the schema/table to list rules for")
	return cmd
}

func newRuleRmCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <rule-id>",
		Short: "Delete a persisted rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			return s.Delete(args[0])
		},
	}
}
