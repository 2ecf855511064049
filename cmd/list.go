package cmd

import (
	"github.com/spf13/cobra"

	"recast.dev/pkg/recast/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog scenarios",
		Long:  "List the scenarios declared in the catalog with their shape and transpile targets.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			suite, err := loadSuite()
			if err != nil {
				return err
			}

			return workflow(suite).List(cmd.Context(), domain.ListArgs{Suite: suite})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
