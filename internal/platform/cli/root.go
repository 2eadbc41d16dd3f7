package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	console "github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

const (
	ExitFound     = 0
	ExitFailure   = 1
	ExitExhausted = 2
	ExitCancelled = 3
)

// exitError carries a non-zero outcome that is not a failure, such as an
// exhausted search.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "pfxcrack",
		Short:         "Recover the passphrase of a PKCS#12 bundle by exhaustive search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			setupLogging(verbose)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(newCrackCommand(), newHashCommand())
	return rootCmd
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	if os.Getenv("PRETTY_LOGS") != "false" {
		logger := slog.New(
			console.NewHandler(os.Stderr, &console.HandlerOptions{Level: logLevel}),
		)
		slog.SetDefault(logger)
	} else {
		slog.SetLogLoggerLevel(logLevel)
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := NewRootCommand().Execute()
	if err == nil {
		return ExitFound
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintln(os.Stderr, err)
	return ExitFailure
}
