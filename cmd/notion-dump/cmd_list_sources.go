/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/notion-dump/internal/termfmt"
)

var listSourcesUsage = strings.TrimSpace(`
If you want to check that the integration can see every configured database, and how many pages
each one has, use this command.  Nothing is written.
`)

var listSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Print the configured databases with their titles and page counts",
	Long:  listSourcesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		api, stop, err := newAPI(false)
		if err != nil {
			return err
		}
		defer stop()

		termfmt.SetEnabled(!NoColor)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sources:\n")
		for _, src := range ParsedConfig.Sources {
			db, err := api.GetDatabase(ctx, src.DatabaseID)
			if err != nil {
				return fmt.Errorf("list: couldn't fetch database %s: %w", src.DatabaseID, err)
			}
			pages, err := api.QueryAllPages(ctx, src.DatabaseID)
			if err != nil {
				return fmt.Errorf("list: couldn't list pages of %s: %w", src.DatabaseID, err)
			}
			fmt.Fprintf(out, "  - %s: %s (%d pages) -> %s\n",
				src.DatabaseID, termfmt.Bold().V(db.PlainTitle()), len(pages), src.OutputDir)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listSourcesCmd)
}
