package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/lqlroute/internal/event"
	"github.com/oxhq/lqlroute/internal/evaluator"
	"github.com/oxhq/lqlroute/internal/lql"
)

func newEvalCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "eval <query> <event.json>",
		Short: "Evaluate an LQL query against a single JSON event document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}

			rs, err := lql.Parse(args[0], sch)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading event file %s: %w", args[1], err)
			}
			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parsing event file %s: %w", args[1], err)
			}

			ev, err := event.FromMap(doc)
			if err != nil {
				return fmt.Errorf("building event: %w", err)
			}

			matched := true
			for _, f := range rs.Search {
				pass := evaluator.EvalFilter(ev, f)
				if !pass {
					matched = false
				}
				mark := "✓"
				if !pass {
					mark = "✗"
				}
				negate := ""
				if f.Negated() {
					negate = "NOT "
				}
				fmt.Printf("%s %s%s %s %s\n", mark, negate, f.Path, f.Operator, f.Value.String())
			}

			if matched {
				fmt.Println("match")
			} else {
				fmt.Println("no match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a schema file (descriptors or sample metadata)")
	return cmd
}
