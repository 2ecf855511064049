// Package cmd provides the root command and CLI setup for recast.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"recast.dev/pkg/recast/internal/adapter"
	"recast.dev/pkg/recast/internal/controller"
	"recast.dev/pkg/recast/internal/domain"
	m "recast.dev/pkg/recast/internal/model"
)

var fsAdapter adapter.SourceFS
var reportStore adapter.ReportStore
var ui controller.UI

// workflow builds the full dependency graph for one suite. The process
// runner's stamp and the repository guard's root are both suite-scoped, so
// this cannot happen at init time. Tests swap this variable for a stub.
var workflow = func(suite m.Suite) domain.Workflow {
	runner := adapter.NewLocalProcessRunner(m.Path(viper.GetString(logDirConfigKey)), time.Now())

	var guard adapter.RepositoryGuard
	if suite.Root != "" {
		guard = adapter.NewGitGuard(runner, suite.Root, "repo")
	}

	pipeline := domain.NewPipeline(
		adapter.NewCodeReader(),
		newExecTranspiler(),
		newExecTranspiler(),
		newExecTranspiler(),
		adapter.NewCodeWriter(0o644),
	)

	transpiler := domain.NewTranspiler(pipeline, fsAdapter)
	buildRunner := domain.NewBuildRunner(runner, fsAdapter)
	orchestrator := domain.NewOrchestrator(fsAdapter, buildRunner, transpiler, guard)

	return domain.NewWorkflow(reportStore, ui, orchestrator)
}

func newExecTranspiler() *adapter.ExecTranspiler {
	stageTimeout := time.Duration(viper.GetInt64(transpilerTimeoutKey)) * time.Second

	return adapter.NewExecTranspiler(viper.GetStringSlice(transpilerCmdConfigKey), stageTimeout)
}

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// catalogFlag points at the scenario catalog file.
var catalogFlag string

// logDirFlag holds per-phase child process log artifacts.
var logDirFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFS()
	reportStore = adapter.NewReportStore()
}

const rootLongDescription = `Recast is a transpile-and-verify harness: it pushes selected source files of
a simulation codebase through a source-to-source transpiler pipeline, then
configures, builds and runs the simulation to confirm the transpiled tree
still behaves.

Scenarios are declared in a YAML catalog (default: scenarios.yaml).`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recast",
		Short: "Transpile-and-verify harness",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for scenario reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(&catalogFlag, catalogFlagName, "c", viper.GetString(catalogConfigKey), "scenario catalog file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(catalogFlagName), catalogConfigKey)

	cmd.PersistentFlags().StringVar(&logDirFlag, logDirFlagName, viper.GetString(logDirConfigKey), "directory for per-phase child process logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logDirFlagName), logDirConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func loadSuite() (m.Suite, error) {
	return adapter.LoadCatalog(m.Path(viper.GetString(catalogConfigKey)))
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
