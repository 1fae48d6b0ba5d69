// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md/internal/ledger"
	"github.com/pdiddy/pdf2md/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past conversion runs",
	Long: `Runs reads the conversion ledger: one record per document conversion with
its source, output, mode, page count, duration, and outcome.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversion runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := ledger.NewStore(types.LedgerConfig{StateDir: viper.GetString("state_dir")})
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s  %-9s  mode=%s  pages=%d  %s  %s",
				r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.Mode, r.Pages, r.Duration.Round(10*time.Millisecond), r.SourcePath)
			if r.Error != "" {
				line += "  (" + r.Error + ")"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full conversion ledger as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := ledger.NewStore(types.LedgerConfig{StateDir: viper.GetString("state_dir")})
		if err != nil {
			return err
		}
		defer store.Close()

		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 0, "maximum number of runs to list (default 20)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
