package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "recast.dev/pkg/recast/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

var (
	passedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func styledStatus(status m.Status) string {
	label := status.String()

	switch status {
	case m.StatusPassed:
		return passedStyle.Render(label)
	case m.StatusFailed:
		return failedStyle.Render(label)
	case m.StatusDegraded:
		return degradedStyle.Render(label)
	default:
		return label
	}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayCatalog prints the scenario catalog as a table.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, suite m.Suite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCatalogTable(suite))

	return nil
}

// DisplayScenarioStart announces a scenario run.
func (s *SimpleUI) DisplayScenarioStart(ctx context.Context, scenario m.Scenario) {
	if err := ctx.Err(); err != nil {
		return
	}

	shape := "transpile+verify"
	if scenario.PreVerify {
		shape = "verify+transpile+verify"
	}

	s.printf("Starting scenario %s (%s, %d file(s))\n", scenario.Name, shape, len(scenario.Files))
}

// DisplayScenarioResult prints the terminal status and per-phase outcomes.
func (s *SimpleUI) DisplayScenarioResult(ctx context.Context, report m.ScenarioReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Scenario %s -> %s\n", report.Scenario, styledStatus(report.Status))

	if report.Err != "" {
		s.printf("  error: %s\n", report.Err)
	}

	for _, file := range report.Files {
		if file.Failed() {
			s.printf("  transpile %s: %s\n", file.Target, file.Err)
			continue
		}

		s.printf("  transpiled %s (backup: %v)\n", file.Target, file.BackedUp)
	}

	s.printPhases("baseline", report.Baseline)
	s.printPhases("verify", report.Verify)
}

func (s *SimpleUI) printPhases(label string, result *m.BuildRunResult) {
	if result == nil {
		return
	}

	for _, phase := range result.Phases {
		if phase.Skipped {
			s.printf("  %s/%s: skipped\n", label, phase.Phase)
			continue
		}

		s.printf("  %s/%s: %s (exit %d, %s)\n",
			label, phase.Phase, phase.ClassTag, phase.ExitCode, phase.Elapsed.Round(time.Millisecond))
	}
}

// DisplaySummary prints the end-of-run summary table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, reports []m.ScenarioReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", RenderSummaryTable(reports))

	return nil
}

func renderCatalogTable(suite m.Suite) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Scenario", "Setup Args", "Files", "Shape", "Quick"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	for _, sc := range suite.Scenarios {
		shape := "transpile+verify"
		if sc.PreVerify {
			shape = "verify+transpile+verify"
		}

		table.Append([]string{
			sc.Name,
			fmt.Sprintf("%v", sc.SetupArgs),
			fmt.Sprintf("%d", len(sc.Files)),
			shape,
			fmt.Sprintf("%v", sc.Quick),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(suite.Scenarios)), "", "", "", ""})
	table.Render()

	return buf.String()
}

// RenderSummaryTable renders scenario reports as a plain table. Shared with
// the TUI, which prints the same table after the live view closes.
func RenderSummaryTable(reports []m.ScenarioReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Scenario", "Status", "Files", "Error"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	passed := 0

	for _, report := range reports {
		if report.Passed() {
			passed++
		}

		table.Append([]string{
			report.Scenario,
			report.Tag,
			fmt.Sprintf("%d", len(report.Files)),
			report.Err,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Passed %d/%d", passed, len(reports)), "", "", "",
	})
	table.Render()

	return buf.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
