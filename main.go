package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/habedi/showcase/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// main sets up logging from DEBUG_SHOWCASE, turns an interrupt into
// cancellation of the running command and runs the CLI.
func main() {
	configureLogLevelFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, func(msg string) { log.Warn().Msg(msg) }, cancel)

	cmd.Execute(ctx)
}

// configureLogLevelFromEnv enables debug logging when DEBUG_SHOWCASE is set to
// anything other than an empty string, "false" or "0"; otherwise logging is off.
func configureLogLevelFromEnv() {
	switch os.Getenv("DEBUG_SHOWCASE") {
	case "", "false", "0":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt waits for a signal on stopChan, logs and cancels the running
// command. Later interrupts get the default behaviour, so a second Ctrl+C kills
// a command that does not stop.
func handleInterrupt(stopChan chan os.Signal, logFn func(string), cancel context.CancelFunc) {
	<-stopChan
	signal.Stop(stopChan)
	logFn("Interrupt signal received. Shutting down...")
	cancel()
}
