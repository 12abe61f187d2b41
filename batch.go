package main

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
)

var batchFlags struct {
	force       bool
	interactive bool
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Parse every file under a directory",
	Long: `Parse every file under a directory whose extension has a registered stack.

Files that have not changed since their last parse are skipped unless
--force is given. Hidden directories and exclude_patterns are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		return commands.Batch(cmd.Context(), env, cmd.OutOrStdout(), args[0], commands.BatchOptions{
			Force:    batchFlags.force,
			Progress: batchFlags.interactive,
		})
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVarP(&batchFlags.force, "force", "f", false, "parse files even if unchanged")
	batchCmd.Flags().BoolVarP(&batchFlags.interactive, "interactive", "i", false, "show progress while parsing")
}
