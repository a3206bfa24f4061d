// Package cli provides the command-line interface for housereg.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/YuminosukeSato/housereg/internal/cli/commands"
	"github.com/YuminosukeSato/housereg/internal/cli/config"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "housereg",
		Short: "housereg - closed-form linear regression for housing prices",
		Long: `housereg fits a linear regression model to a CSV housing dataset by solving
the normal equation on standardized features, reports the training-set MSE
and R², and predicts the price of a new sample.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			if err := log.SetupLogger(cfg.LogLevel, errOut, prettyLogs(cfg.LogFormat, errOut)); err != nil {
				return err
			}
			if used != "" {
				log.GetLoggerWithName("cli").Debug("config file loaded", log.PathKey, used)
			}

			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./housereg.yaml)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (auto|console|json)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutput, "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewFitCommand())
	rootCmd.AddCommand(commands.NewPredictCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// prettyLogs reports whether logs should use zerolog's console writer.
func prettyLogs(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Execute runs the root command.
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes the command line args. A failure is printed once to stderr;
// the structured record with its stack trace is only emitted at debug level.
func run(args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		log.GetLoggerWithName("cli").Debug("command failed", log.ErrAttrKey, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
