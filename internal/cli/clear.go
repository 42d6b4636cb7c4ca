package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the last displayed listing",
	Long:  `Forget the listing saved by "list". Nothing on disk besides the saved listing is touched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearListing(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
