package cmd

import (
	"io"

	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/client"
	"github.com/habedi/showcase/config"
	"github.com/habedi/showcase/db"
	"github.com/habedi/showcase/pkg/clierr"
	"github.com/habedi/showcase/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// settings is the configuration of the running command, after flag overrides.
var settings config.Config

// loadSettings reads the configuration and applies the persistent flag overrides.
func loadSettings(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return clierr.New(clierr.Validation, "Failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		c.Source.Location, _ = flags.GetString("source")
	}
	if flags.Changed("db") {
		c.Database.Path, _ = flags.GetString("db")
	}
	if flags.Changed("strategy") {
		c.Store.Strategy, _ = flags.GetString("strategy")
	}

	if err := validation.ValidateSourceLocation(c.Source.Location); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := validation.ValidateStrategy(c.Store.Strategy); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := validation.ValidateLocale(c.Display.Locale); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}

	settings = c
	db.Path = c.Database.Path
	log.Debug().
		Str("source", c.Source.Location).
		Str("db", c.Database.Path).
		Str("strategy", c.Store.Strategy).
		Msg("Configuration loaded")
	return nil
}

// buildStore wires the configured source and strategy into a catalogue store.
// A non-nil progress writer receives a download bar when the source is remote.
func buildStore(progress io.Writer) (catalog.Store, error) {
	src := client.NewSource(settings.Source.Location)
	if hs, ok := src.(*client.HTTPSource); ok && progress != nil {
		hs.Progress = progress
	}
	if settings.Store.Strategy == "remote" {
		return catalog.NewRemoteStore(src), nil
	}
	if err := initializeDatabase(); err != nil {
		return nil, err
	}
	return catalog.NewCachedStore(db.NewEntryRepository(db.GetDB()), src), nil
}
