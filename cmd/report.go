package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recast.dev/pkg/recast/internal/domain"
	m "recast.dev/pkg/recast/internal/model"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "View previously generated scenario reports",
		Long:  "View previously generated scenario reports from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))

			return workflow(m.Suite{}).Report(cmd.Context(), domain.ReportArgs{Reports: reportsPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
