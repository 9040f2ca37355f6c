package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/config"
)

// cfg holds the loaded configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "screenshot-manager",
	Short: "Browse, watch and annotate screenshots from configured sources",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip the config gate for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First run: config missing → run the setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !config.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Println()
			fmt.Println("  Welcome to screenshot-manager! Looks like this is your first time.")
			if err := runSetup(); err != nil {
				return err
			}
		}
		// Non-interactive (tests, pipes): continue with whatever is on disk,
		// which may be the defaults.

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = *c
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the loaded configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// requireSources errors when no screenshot source is enabled, pointing the
// user at setup.
func requireSources() error {
	if !cfg.Sources.FolderEnabled && !cfg.Sources.ListEnabled {
		return fmt.Errorf("no screenshot sources configured — run 'screenshot-manager setup'")
	}
	return nil
}
