package cmd

import (
	"github.com/habedi/showcase/config"
	"github.com/habedi/showcase/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configCmd shows or stores the effective settings.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the settings in effect, after flag and environment overrides",
			Run: func(cmd *cobra.Command, args []string) {
				printSettings(cmd, settings)
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Write the settings in effect to the configuration file",
			RunE:  saveSettings,
		},
	)

	return cmd
}

func printSettings(cmd *cobra.Command, c config.Config) {
	cmd.Printf("source.location = %s\n", c.Source.Location)
	cmd.Printf("database.path   = %s\n", c.Database.Path)
	cmd.Printf("store.strategy  = %s\n", c.Store.Strategy)
	cmd.Printf("alert.duration  = %s\n", c.Alert.Duration)
	cmd.Printf("display.locale  = %s\n", c.Display.Locale)
}

func saveSettings(cmd *cobra.Command, _ []string) error {
	path := config.Path()
	if err := config.Save(settings); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to save configuration")
		return clierr.New(clierr.Internal, "Failed to save the configuration to "+path, err)
	}
	log.Info().Str("path", path).Msg("Configuration saved")
	cmd.Printf("Configuration saved to %s\n", path)
	return nil
}
