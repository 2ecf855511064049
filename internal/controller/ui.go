// Package controller provides output adapters for displaying scenario results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "recast.dev/pkg/recast/internal/model"
)

// UI defines the interface for reporting harness progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	DisplayCatalog(ctx context.Context, suite m.Suite) error
	DisplayScenarioStart(ctx context.Context, scenario m.Scenario)
	DisplayScenarioResult(ctx context.Context, report m.ScenarioReport)
	DisplaySummary(ctx context.Context, reports []m.ScenarioReport) error
}

// NewUI picks the interactive TUI on a terminal and the simple printer
// everywhere else (CI, redirected output).
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
