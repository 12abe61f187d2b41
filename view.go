package main

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Parse a file and browse the result",
	Long:  `Parse a file and open it in a viewer with content, data and diff panes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		return commands.View(cmd.Context(), env, args[0])
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
