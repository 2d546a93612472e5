package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "pollboard",
	Short: "Auto-refreshing dashboard for a JSON endpoint",
	Long: `pollboard polls a JSON endpoint on a fixed interval and shows the rows
as a table, in the browser or in the terminal.

When a fetch fails the last good rows stay on screen, marked stale, and
the next tick tries again.

Examples:
  pollboard init --url https://example.com/api/items
  pollboard serve
  pollboard watch --interval 5s`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDebug(verbose)
		configureColor()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pollboard.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// configureColor sets the colour profile from --no-color and output.color.
// A config that fails to load here is reported later by the command itself.
func configureColor() {
	mode := "auto"
	if cfg, _, err := loadConfigFile(); err == nil {
		mode = cfg.Output.Color
	}
	ui.ConfigureColor(mode, noColor)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}

		fmt.Fprintln(os.Stderr, err)
		if isUnknownCommandError(err) {
			if suggestions := rootCmd.SuggestionsFor(extractUnknownCommand(err)); len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "\nDid you mean %s?\n", strings.Join(suggestions, " or "))
			}
			fmt.Fprintln(os.Stderr, "Run 'pollboard --help' for the list of commands.")
		}
		os.Exit(1)
	}
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand returns the quoted command name from cobra's
// "unknown command" error, or "" when there isn't one.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
