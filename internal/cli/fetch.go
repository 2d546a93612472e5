package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/fetch"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/render"
	"github.com/rileyhilliard/pollboard/internal/server"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

var (
	fetchFlags SourceFlags
	fetchJSON  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch once and print the rows",
	Long: `Run a single fetch and print the result as a table, or as JSON with
--json. Exits non-zero when the fetch fails.

Examples:
  pollboard fetch
  pollboard fetch --json | jq '.data.rows[0]'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchCommand(cmd.Context(), cmd.OutOrStdout(), fetchFlags, fetchJSON)
	},
}

func init() {
	AddSourceFlags(fetchCmd, &fetchFlags)
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(fetchCmd)
}

func fetchCommand(ctx context.Context, out io.Writer, flags SourceFlags, asJSON bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(out, err)
			return errors.NewExitError(1)
		}
		return err
	}
	if err := config.Validate(cfg, config.SkipWidgetCheck()); err != nil {
		if asJSON {
			_ = WriteJSONFromError(out, err)
			return errors.NewExitError(1)
		}
		return err
	}

	opts := fetch.OptionsFromConfig(cfg.Source)
	opts.Logger = logger.NewEnvLogger("[fetch]")
	f, err := fetch.New(opts)
	if err != nil {
		return err
	}

	spinner := ui.NewSpinnerTo(os.Stderr, "Fetching "+f.URL(), !asJSON && ui.IsTerminal(os.Stderr))
	spinner.Start()
	rows, fetchErr := f.Fetch(ctx)
	if fetchErr != nil {
		spinner.Fail()
	} else {
		spinner.Success()
	}

	if fetchErr != nil {
		if asJSON {
			_ = WriteJSONFromError(out, fetchErr)
			return errors.NewExitError(1)
		}
		kind, _ := fetch.KindOf(fetchErr)
		return errors.WrapWithCode(fetchErr, errors.ErrFetch,
			fmt.Sprintf("Fetch from %s failed (%s)", f.URL(), kind),
			"Run 'pollboard doctor' for a full diagnosis.")
	}

	snap := snapshot.NewStore().Update(rows, nil)

	if asJSON {
		return WriteJSONSuccess(out, server.SnapshotResponse(snap))
	}

	_, err = fmt.Fprint(out, render.RenderText(snap, terminalWidth(out)))
	return err
}

// terminalWidth returns the width of out when it is a terminal, or 0.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
