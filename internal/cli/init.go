package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/fetch"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

var (
	initURL      string
	initInterval string
	initTitle    string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pollboard.yaml configuration",
	Long: `Create a .pollboard.yaml in the current directory.

Prompts for the endpoint and refresh interval, then fetches once to check
the endpoint answers. Passing --url skips the prompts.

Examples:
  pollboard init
  pollboard init --url https://example.com/api/items --interval 5s
  pollboard init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), cmd.OutOrStdout(), InitOptions{
			URL:            initURL,
			Interval:       initInterval,
			Title:          initTitle,
			Overwrite:      initForce,
			NonInteractive: initURL != "" || !ui.IsTerminal(os.Stdin),
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initURL, "url", "", "endpoint to poll (skips prompts)")
	initCmd.Flags().StringVar(&initInterval, "interval", "", "refresh interval (default 10s)")
	initCmd.Flags().StringVar(&initTitle, "title", "", "dashboard title")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	URL            string
	Interval       string
	Title          string
	Dir            string // Directory to write into, default "."
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
}

// Init creates a new .pollboard.yaml configuration file.
func Init(ctx context.Context, out io.Writer, opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	url, interval, title := opts.URL, opts.Interval, opts.Title

	if opts.NonInteractive {
		if url == "" {
			return errors.New(errors.ErrConfig,
				"An endpoint URL is required in non-interactive mode",
				"Pass --url or run 'pollboard init' in a terminal")
		}
	} else {
		if interval == "" {
			interval = cfg.Refresh.Interval.String()
		}
		if title == "" {
			title = cfg.Server.Title
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Endpoint URL").
					Description("An http(s) URL that returns a JSON array of objects").
					Placeholder("https://example.com/api/items").
					Value(&url).
					Validate(func(s string) error {
						if err := config.ValidateURL(s); err != nil {
							return fmt.Errorf("enter an absolute http or https URL")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Refresh interval").
					Description(fmt.Sprintf("How often to fetch (minimum %s)", config.MinInterval)).
					Value(&interval).
					Validate(func(s string) error {
						_, err := config.ParseInterval(s)
						if err != nil {
							return fmt.Errorf("use a duration like 5s or 1m, at least %s", config.MinInterval)
						}
						return nil
					}),
				huh.NewInput().
					Title("Dashboard title").
					Value(&title),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or pass --url to skip the prompts")
		}
	}

	cfg.Source.URL = strings.TrimSpace(url)
	if err := config.ValidateURL(cfg.Source.URL); err != nil {
		return err
	}
	if interval != "" {
		d, err := config.ParseInterval(interval)
		if err != nil {
			return err
		}
		cfg.Refresh.Interval = d
	}
	if strings.TrimSpace(title) != "" {
		cfg.Server.Title = strings.TrimSpace(title)
	}

	if err := checkEndpoint(ctx, out, cfg, opts.NonInteractive); err != nil {
		return err
	}

	if err := config.Write(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  pollboard serve   - Open the dashboard in a browser")
	fmt.Fprintln(out, "  pollboard watch   - Show the dashboard in this terminal")
	fmt.Fprintln(out, "  pollboard doctor  - Check configuration")
	return nil
}

// checkEndpoint fetches once before the config is saved. A failure is fatal
// without a terminal; interactively the user may save anyway.
func checkEndpoint(ctx context.Context, out io.Writer, cfg *config.Config, nonInteractive bool) error {
	f, err := fetch.New(fetch.OptionsFromConfig(cfg.Source))
	if err != nil {
		return err
	}

	spinner := ui.NewSpinnerTo(out, "Fetching "+f.URL(), !nonInteractive)
	spinner.Start()
	rows, err := f.Fetch(ctx)
	if err == nil {
		spinner.Success()
		fmt.Fprintf(out, "  %d row%s, ready to go\n\n", len(rows), plural(len(rows)))
		return nil
	}
	spinner.Fail()

	fetchErr := errors.WrapWithCode(err, errors.ErrFetch,
		fmt.Sprintf("Fetch from %s failed", f.URL()),
		"Check the URL, or save anyway and run 'pollboard doctor' later")
	if nonInteractive {
		return fetchErr
	}

	fmt.Fprintf(out, "\n%s %v\n\n", ui.SymbolFail, err)
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the endpoint later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return fetchErr
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
