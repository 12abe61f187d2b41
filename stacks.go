package main

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
)

var stacksCmd = &cobra.Command{
	Use:   "stacks",
	Short: "List registered stacks and available parsers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		return commands.Stacks(cmd.OutOrStdout(), env)
	},
}

func init() {
	rootCmd.AddCommand(stacksCmd)
}
