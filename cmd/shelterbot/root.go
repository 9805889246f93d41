package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// cfgFile overrides the config path inside the data dir.
	cfgFile string
	dataDir string
	debug   bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "shelterbot",
		Short:         "Find shelters that need volunteers",
		Long:          `Searches VK communities for animal shelters, scores their recent posts and keeps the best appeal per shelter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <data-dir>/config.yml)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $SHELTERBOT_DATA_DIR or .)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	root.AddCommand(
		newServeCommand(),
		newScanCommand(),
		newScoreCommand(),
		newSheltersCommand(),
		newFavoritesCommand(),
		newSecretsCommand(),
	)
	return root
}

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCommand().ExecuteContext(ctx)
}
