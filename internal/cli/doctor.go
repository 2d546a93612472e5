package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/doctor"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, endpoint and server problems",
	Long: `Check the config file, fetch from the endpoint once, and make sure the
widget and listen address are usable.

Exits non-zero when any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass      int    `json:"pass"`
	Warn      int    `json:"warn"`
	Fail      int    `json:"fail"`
	AllClear  bool   `json:"all_clear"`
	Message   string `json:"message"`
	FetchKind string `json:"fetch_kind,omitempty"`
}

func doctorCommand(out io.Writer, asJSON bool) error {
	cfg, path, err := loadConfigFile()
	if err != nil {
		cfg = nil
	}
	if path == "" {
		path = Config()
	}

	checks := doctor.NewChecks(path, cfg, err)
	results := doctor.Run(checks, doctor.Deadline(cfg))

	if asJSON {
		if err := WriteJSONSuccess(out, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(out, checks, results)
	}

	if doctor.Count(results).Failed() {
		return errors.NewExitError(1)
	}
	return nil
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := make(map[string][]doctor.CheckResult)
	var order []string
	for i, check := range checks {
		cat := check.Category()
		if _, exists := grouped[cat]; !exists {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(order))}
	for _, cat := range order {
		output.Categories = append(output.Categories, CategoryOutput{Name: cat, Results: grouped[cat]})
	}

	tally := doctor.Count(results)
	output.Summary = SummaryOutput{
		Pass:      tally.Pass,
		Warn:      tally.Warn,
		Fail:      tally.Fail,
		AllClear:  tally.Clean(),
		Message:   doctor.Summary(results),
		FetchKind: fetchKind(results),
	}
	return output
}

func renderDoctorText(out io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	rows := make([]ui.DoctorCheckRow, len(results))
	for i, r := range results {
		rows[i] = ui.DoctorCheckRow{
			Status:     r.Status.String(),
			Category:   checks[i].Category(),
			Message:    firstLine(r.Message),
			Suggestion: r.Suggestion,
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("pollboard diagnostic report"))
	fmt.Fprintln(out)
	fmt.Fprint(out, ui.RenderDoctorTable(rows))
	fmt.Fprintln(out, strings.Repeat("━", 60))

	tally := doctor.Count(results)
	summaryStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	if tally.Failed() {
		summaryStyle = lipgloss.NewStyle().Foreground(ui.ColorError)
	} else if !tally.Clean() {
		summaryStyle = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	}
	fmt.Fprintln(out, summaryStyle.Render(doctor.Summary(results)))
}

func fetchKind(results []doctor.CheckResult) string {
	kind, _ := doctor.FetchFailure(results)
	return kind
}

// firstLine trims structured error text, which spans several lines, for
// the one-line report.
func firstLine(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), ui.SymbolFail+" ")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
