package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "recast.dev/pkg/recast/internal/model"
)

// TUI implements UI using Bubble Tea for a live scenario ticker. The summary
// table is printed after the program exits, on the plain output stream.
type TUI struct {
	output  io.Writer
	program *tea.Program

	mu   sync.Mutex
	done chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live view in the background.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.program = tea.NewProgram(newTickerModel(), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.output, "display error: %v\n", err)
		}
	}()

	return nil
}

// Close stops the live view and waits for it to unwind.
func (t *TUI) Close(ctx context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(quitMsg{})

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayCatalog prints the catalog table; the live view is not involved.
func (t *TUI) DisplayCatalog(ctx context.Context, suite m.Suite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n%s", renderCatalogTable(suite))

	return err
}

// DisplayScenarioStart feeds the live view a new running scenario.
func (t *TUI) DisplayScenarioStart(ctx context.Context, scenario m.Scenario) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(scenarioStartMsg{name: scenario.Name, files: len(scenario.Files)})
}

// DisplayScenarioResult marks the current scenario finished in the live view.
func (t *TUI) DisplayScenarioResult(ctx context.Context, report m.ScenarioReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(scenarioDoneMsg{name: report.Scenario, status: report.Status})
}

// DisplaySummary prints the summary table after the live view has closed.
func (t *TUI) DisplaySummary(ctx context.Context, reports []m.ScenarioReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n%s", RenderSummaryTable(reports))

	return err
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

type scenarioStartMsg struct {
	name  string
	files int
}

type scenarioDoneMsg struct {
	name   string
	status m.Status
}

type quitMsg struct{}

type finishedLine struct {
	name   string
	status m.Status
}

// tickerModel is the Bubble Tea model: a spinner next to the scenario that is
// currently running, above the list of finished ones.
type tickerModel struct {
	spin     spinner.Model
	current  string
	files    int
	finished []finishedLine
	quitting bool
}

func newTickerModel() tickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return tickerModel{spin: s}
}

func (tm tickerModel) Init() tea.Cmd {
	return tm.spin.Tick
}

func (tm tickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scenarioStartMsg:
		tm.current = msg.name
		tm.files = msg.files

		return tm, nil

	case scenarioDoneMsg:
		tm.finished = append(tm.finished, finishedLine{name: msg.name, status: msg.status})
		tm.current = ""

		return tm, nil

	case quitMsg:
		tm.quitting = true

		return tm, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			tm.quitting = true
			return tm, tea.Quit
		}

		return tm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		tm.spin, cmd = tm.spin.Update(msg)

		return tm, cmd
	}

	return tm, nil
}

func (tm tickerModel) View() string {
	var b strings.Builder

	for _, line := range tm.finished {
		fmt.Fprintf(&b, "  %s %s\n", styledStatus(line.status), line.name)
	}

	if tm.current != "" && !tm.quitting {
		fmt.Fprintf(&b, "  %s running %s (%d file(s))\n", tm.spin.View(), tm.current, tm.files)
	}

	return b.String()
}
