package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/screenshot"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the configured sources and log every collection change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSources(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lib := screenshot.NewLibrary()
		defer lib.Close()
		lib.Reconfigure(cfg.Sources)

		col := lib.Collection()
		ticks := col.Watch(ctx)

		log.Printf("watch: following configured sources, ctrl-c to stop")
		for {
			select {
			case <-ctx.Done():
				log.Printf("watch: stopping")
				return nil
			case _, ok := <-ticks:
				if !ok {
					return nil
				}
				snap := col.Snapshot()
				if len(snap) == 0 {
					log.Printf("watch: collection empty")
					continue
				}
				log.Printf("watch: %d screenshots, newest %s", len(snap), snap[0].Path)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
