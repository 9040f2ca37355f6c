package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/screenshot"
	"github.com/Programie/ScreenshotManager/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive screenshot browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSources(); err != nil {
			return err
		}
		if !term.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("browse needs an interactive terminal (try 'screenshot-manager list')")
		}

		lib := screenshot.NewLibrary()
		defer lib.Close()
		lib.Reconfigure(cfg.Sources)

		return tui.Run(lib, cfg.PenWidth)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
