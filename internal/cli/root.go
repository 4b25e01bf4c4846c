package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgannotate",
	Short: "Annotate model files with their PostgreSQL table schema",
	Long: `pgannotate reads table definitions from a live PostgreSQL database and
writes them as a comment block into the matching model source files.

Running it twice in a row changes nothing. Files are rewritten only when the
schema block is missing or its columns, indexes or constraints have changed.

Project settings are read from pgannotate.yaml in the directory given by
--config (default: current directory).

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  4  - check found files with outdated annotations
  10 - Invalid configuration
  11 - Database connection failed
  12 - File changed on disk during the run`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgannotate")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", ".",
		"Project directory holding pgannotate.yaml")
	_ = rootCmd.MarkPersistentFlagDirname("config")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getConfigDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("config")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
