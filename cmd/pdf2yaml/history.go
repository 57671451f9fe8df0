// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2yaml/internal/history"
)

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Long: `History lists conversion runs recorded with --history or with
history.enabled set in the config file, newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			format, _ := cmd.Flags().GetString("format")
			path := c.config().History.Path

			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return history.Write(cmd.OutOrStdout(), nil, history.Format(format))
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			return history.Write(cmd.OutOrStdout(), recs, history.Format(format))
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of runs to show (0 for all)")
	cmd.Flags().String("format", "table", "output format: table, yaml, or json")
	return cmd
}
