package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/habedi/showcase/db"
	"github.com/habedi/showcase/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the command line. Cancelling ctx stops the running command,
// lets it finish its cleanup and exits with status 1.
func Execute(ctx context.Context) {
	rootCmd := createRootCmd()

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")

	err := rootCmd.ExecuteContext(ctx)
	closeDatabase()
	if ctx.Err() != nil {
		log.Warn().Err(err).Msg("Command interrupted.")
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Msg("Command execution failed.")
		os.Exit(clierr.ExitCode(err))
	}
}

func createRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "showcase",
		Short:             "Browse and curate a small catalogue of content entries",
		SilenceUsage:      true,
		PersistentPreRunE: loadSettings,
	}

	rootCmd.PersistentFlags().String("source", "", "URL or path of the catalogue document (overrides source.location)")
	rootCmd.PersistentFlags().String("db", "", "Path to the catalogue cache database (overrides database.path)")
	rootCmd.PersistentFlags().String("strategy", "", "Catalogue store strategy: cached or remote (overrides store.strategy)")

	rootCmd.AddCommand(
		sessionCmd(),
		catalogueCmd(),
		configCmd(),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// initializeDatabase opens the cache database on first use.
func initializeDatabase() error {
	if db.GetDB() != nil {
		return nil
	}
	if err := db.InitDB(); err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return clierr.New(clierr.Internal, "Failed to open the catalogue cache at "+db.Path, err)
	}
	return nil
}

func closeDatabase() {
	if err := db.CloseDB(); err != nil && !errors.Is(err, db.ErrNotInitialized) {
		log.Error().Err(err).Msg("Failed to close the database.")
	}
}
