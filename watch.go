package main

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
)

var watchFlags struct {
	metricsAddr string
	dashboard   bool
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Re-parse files as they change",
	Long: `Watch directories and re-parse files as they are written.

Changes are debounced per file using the configured debounce. With
--metrics-addr, Prometheus metrics are served on /metrics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		return commands.Watch(cmd.Context(), env, cmd.OutOrStdout(), args, commands.WatchOptions{
			MetricsAddr: watchFlags.metricsAddr,
			Dashboard:   watchFlags.dashboard,
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "address to serve metrics on (overrides metrics_addr)")
	watchCmd.Flags().BoolVarP(&watchFlags.dashboard, "dashboard", "d", false, "show a live dashboard")
}
