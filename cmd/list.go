package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/screenshot"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the screenshots visible from the configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSources(); err != nil {
			return err
		}

		col := screenshot.NewCollection()
		col.BulkLoad(cfg.Sources, screenshot.DefaultFreshness)
		entries := col.Snapshot()

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			cmd.Println("no screenshots found")
			return nil
		}

		bold := color.New(color.Bold).Sprint
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold("NAME"), bold("MODIFIED"), bold("SIZE"), bold("PATH"))
		for _, e := range entries {
			tbl.AddRow(
				filepath.Base(e.Path),
				e.ModifiedAt.Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%dx%d", e.Width, e.Height),
				e.Path,
			)
		}
		_, _ = fmt.Fprintln(color.Output, tbl)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit entries as a JSON array")
	rootCmd.AddCommand(listCmd)
}
