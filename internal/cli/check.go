package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgannotate/internal/services"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Fail when any annotation is out of date",
	Long: `Check computes the annotation of every model file without writing anything.
It exits with code 4 when at least one file would change.

Examples:
  # CI gate
  pgannotate check

  # Show what is stale
  pgannotate check --diff`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, args, services.ModeCheck, &checkFlags)
	},
	ValidArgsFunction: completeModelPaths,
}

var checkFlags runFlags

func init() {
	rootCmd.AddCommand(checkCmd)

	addConnectionFlags(checkCmd, &checkFlags.conn)
	addPlacementFlags(checkCmd, &checkFlags.placement)
	addRenderFlags(checkCmd, &checkFlags.render)
	addRunFlags(checkCmd, &checkFlags)

	checkCmd.Flags().BoolVar(&checkFlags.diff, "diff", false,
		"Print a line diff for every stale file")
}
