package main

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
)

var parseFlags struct {
	ext    string
	stack  []string
	render bool
	diff   bool
	json   bool
}

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a file or stdin",
	Long: `Parse one file, or stdin when the file is "-" or omitted.

The stack is chosen from the file extension, or from --ext for stdin.
--stack runs the named parsers instead of the registered stack.

Examples:
  # Parse a markdown file
  parsercache parse notes/today.md

  # Parse stdin as markdown and show what changed
  cat today.md | parsercache parse --ext md --diff

  # Run an explicit stack
  parsercache parse draft.txt --stack matter,trim,html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		opts := commands.ParseOptions{
			Ext:    parseFlags.ext,
			Stack:  parseFlags.stack,
			Render: parseFlags.render,
			Diff:   parseFlags.diff,
			JSON:   parseFlags.json,
		}
		if len(args) == 1 {
			opts.Path = args[0]
		}

		return commands.Parse(cmd.Context(), env, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseFlags.ext, "ext", "", "extension that selects the stack")
	parseCmd.Flags().StringSliceVar(&parseFlags.stack, "stack", nil, "comma-separated parser names to run instead of the registered stack")
	parseCmd.Flags().BoolVar(&parseFlags.render, "render", false, "render the parsed content as markdown")
	parseCmd.Flags().BoolVar(&parseFlags.diff, "diff", false, "show the diff between the original and parsed content")
	parseCmd.Flags().BoolVar(&parseFlags.json, "json", false, "print the parsed file as JSON")
	parseCmd.MarkFlagsMutuallyExclusive("render", "diff", "json")
}
