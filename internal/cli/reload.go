package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-labs/wheelhouse/internal/config"
	"github.com/wheelhouse-labs/wheelhouse/internal/reload"
)

var reloadNow bool

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the host to reload its extensions",
	Long: `Run the configured reload_command after reload_delay. Without a reload
command the request is only logged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Current()
		sched := reload.NewScheduler(reload.New(s.ReloadCommand, logger()), s.ReloadDelay, logger())

		if !reloadNow && s.ReloadDelay > 0 {
			select {
			case <-time.After(s.ReloadDelay):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}
		if err := sched.Now("requested"); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reload failed")
			return reported(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reloaded successfully")
		return nil
	},
}

func init() {
	reloadCmd.Flags().BoolVar(&reloadNow, "now", false, "Reload immediately instead of after reload_delay")
	rootCmd.AddCommand(reloadCmd)
}
