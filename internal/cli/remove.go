package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgannotate/internal/services"
)

var removeCmd = &cobra.Command{
	Use:   "remove [paths...]",
	Short: "Strip schema annotations from model files",
	Long: `Remove deletes the schema annotation block, and its wrapper lines, from
every model file. No database connection is made.

Examples:
  pgannotate remove
  pgannotate remove app/models/legacy --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, args, services.ModeRemove, &removeFlags)
	},
	ValidArgsFunction: completeModelPaths,
}

var removeFlags runFlags

func init() {
	rootCmd.AddCommand(removeCmd)

	addPlacementFlags(removeCmd, &removeFlags.placement)
	addRunFlags(removeCmd, &removeFlags)

	removeCmd.Flags().BoolVar(&removeFlags.dryRun, "dry-run", false,
		"Print the changes as diffs without writing any file")
	removeCmd.Flags().BoolVar(&removeFlags.interactive, "interactive", false,
		"Ask before writing each file")
}
