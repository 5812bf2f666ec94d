package main

import (
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/lqlroute/internal/lql"
	"github.com/oxhq/lqlroute/internal/schema"
)

func newParseCmd() *cobra.Command {
	var schemaPath string
	var prevQuery string

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse an LQL query against a schema and print the resulting rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}

			out, err := renderParse(args[0], prevQuery, sch)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a schema file (descriptors or sample metadata)")
	cmd.Flags().StringVar(&prevQuery, "diff-against", "", "a second query to diff the parsed rule set against")
	return cmd
}

// renderParse parses query against sch and renders its rule set as
// indented JSON. If prevQuery is non-empty, it instead renders a unified
// diff between prevQuery's rule set and query's.
func renderParse(query, prevQuery string, sch *schema.Schema) (string, error) {
	rs, err := lql.Parse(query, sch)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering rule set: %w", err)
	}

	if prevQuery == "" {
		return string(out) + "\n", nil
	}

	prev, err := lql.Parse(prevQuery, sch)
	if err != nil {
		return "", fmt.Errorf("parsing --diff-against query: %w", err)
	}
	prevOut, err := json.MarshalIndent(prev, "", "  ")
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(prevOut)),
		B:        difflib.SplitLines(string(out)),
		FromFile: "previous",
		ToFile:   "current",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("rendering diff: %w", err)
	}
	return text, nil
}
