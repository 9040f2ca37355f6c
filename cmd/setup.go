package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure screenshot sources (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before a config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup()
	},
}

// runSetup runs the interactive setup wizard and persists the result.
func runSetup() error {
	// Seed the prompts with the existing config when editing.
	var existing *config.Config
	if config.Exists() {
		if c, err := config.Load(); err == nil {
			existing = c
		}
	}

	c, err := config.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("  ✓ Configuration saved.")
	fmt.Println("  Run 'screenshot-manager browse' to open the library.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
