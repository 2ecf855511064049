package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"recast.dev/pkg/recast/internal/adapter"
	"recast.dev/pkg/recast/internal/domain"
)

// transpileCmd represents the transpile command.
var transpileCmd = newTranspileCmd()

func newTranspileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transpile <files...>",
		Short: "Transpile files in place without building",
		Long: `Push the given source files through the transpiler pipeline and swap the
result in behind a one-time .bak backup. No build or run happens; use this
to inspect transpiler output before wiring a scenario.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := domain.NewPipeline(
				adapter.NewCodeReader(),
				newExecTranspiler(),
				newExecTranspiler(),
				newExecTranspiler(),
				adapter.NewCodeWriter(0o644),
			)

			transpiler := domain.NewTranspiler(pipeline, fsAdapter)

			reports, err := transpiler.TranspileAll(cmd.Context(), parsePaths(args))
			for _, report := range reports {
				if report.Failed() {
					cmd.Printf("%s: %s\n", report.Target, report.Err)
					continue
				}

				cmd.Printf("%s -> %s (backup: %v)\n", report.Target, report.Backup, report.BackedUp)
			}

			if err != nil {
				return fmt.Errorf("transpile: %w", err)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(transpileCmd)
}
