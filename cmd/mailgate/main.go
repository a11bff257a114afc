// Package main is the entry point for the mailgate console app.
//
// The app exercises the MailGate send API interactively:
//
//	mailgate send                 # submit a message and wait for the result
//	mailgate send --watch         # same, streaming every status snapshot
//	mailgate ratelimit <to>       # probe the service's request-rate ceiling
//
// Configuration comes from MAILGATE_CONNECTION_STRING and
// MAILGATE_SENDER_ADDRESS; a local .env file is honored.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:           "mailgate",
	Short:         "Console client for the MailGate send API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// newLogger creates the diagnostics logger. Operator-facing prompts and
// results go to stdout; diagnostics go through zap on stderr.
func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
