package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recast.dev/pkg/recast/internal/domain"
	m "recast.dev/pkg/recast/internal/model"
)

var runQuickFlag bool
var runNoPreVerifyFlag bool
var runBaselineFatalFlag bool
var runTimeoutFlag time.Duration

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenarios...]",
		Short: "Run transpile-verify scenarios",
		Long: `Run the named scenarios from the catalog (default: all of them), strictly
one after another. Each scenario optionally verifies the untouched tree,
transpiles its target files, then builds and runs the simulation again;
the pass condition is the final build/run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := loadSuite()
			if err != nil {
				return err
			}

			applyScenarioOverrides(cmd, &suite)

			return workflow(suite).Run(cmd.Context(), domain.RunArgs{
				Suite:   suite,
				Names:   args,
				Reports: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&runQuickFlag, quickFlagName, "q", false, "reuse existing object directories, skipping setup and build")
	cmd.Flags().BoolVar(&runNoPreVerifyFlag, noPreVerifyFlagName, false, "skip the baseline build/run before transpilation")
	cmd.Flags().BoolVar(&runBaselineFatalFlag, baselineFatalFlagName, viper.GetBool(baselineFatalConfigKey), "fail the scenario when the baseline build/run fails")
	bindFlagToConfig(cmd.Flags().Lookup(baselineFatalFlagName), baselineFatalConfigKey)
	cmd.Flags().DurationVarP(&runTimeoutFlag, timeoutFlagName, "t", 0, "execute phase timeout (overrides the catalog)")
}

// applyScenarioOverrides folds explicitly set run flags over the catalog
// values. Quick overrides still go through the orchestrator's contract check,
// so --quick on a scenario with transpile targets is rejected before any
// process starts.
func applyScenarioOverrides(cmd *cobra.Command, suite *m.Suite) {
	for i := range suite.Scenarios {
		sc := &suite.Scenarios[i]

		if cmd.Flags().Changed(quickFlagName) {
			sc.Quick = runQuickFlag
		}

		if cmd.Flags().Changed(noPreVerifyFlagName) && runNoPreVerifyFlag {
			sc.PreVerify = false
		}

		if cmd.Flags().Changed(baselineFatalFlagName) {
			sc.BaselineFatal = runBaselineFatalFlag
		}

		if cmd.Flags().Changed(timeoutFlagName) {
			sc.ExecuteTimeout = runTimeoutFlag
		}
	}
}
