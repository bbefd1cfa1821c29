package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/habedi/showcase/alert"
	"github.com/habedi/showcase/reset"
	"github.com/habedi/showcase/selection"
	"github.com/habedi/showcase/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// sessionCmd starts the interactive selection console
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session to pick and display entries",
		RunE:  runSession,
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	progress := cmd.ErrOrStderr()
	if f, ok := progress.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		progress = nil
	}
	store, err := buildStore(progress)
	if err != nil {
		return err
	}

	alerts := alert.NewNotifier(settings.Alert.Duration)
	defer alerts.Close()
	resets := reset.NewChannel()

	engine := selection.New(selection.Config{
		Store:  store,
		Alerts: alerts,
		Resets: resets,
		Locale: settings.Display.Locale,
	})
	defer engine.Close()

	engine.Load(ctx)
	log.Info().Int("entries", len(engine.Catalog())).Msg("Session started")

	console := ui.NewConsole(engine, alerts, resets, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := console.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
