package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/install"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
)

var uninstallAllCmd = &cobra.Command{
	Use:   "uninstall-all",
	Short: "Remove every wheel and its manifest entry",
	Args:  cobra.NoArgs,
	RunE:  runUninstallAll,
}

func init() {
	rootCmd.AddCommand(uninstallAllCmd)
}

func runUninstallAll(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := openAddon()
	if err != nil {
		return err
	}
	entries, err := a.scan()
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	view := registry.NewView(a.manifest, entries, logger())
	n, err := view.UninstallAll()
	if cerr := clearListing(); cerr != nil {
		logger().Warn("clearing listing failed", zap.Error(cerr))
	}
	if err != nil {
		fmt.Fprintf(out, "%s (removed %d of %d)\n", install.StatusMessage(err), n, len(entries))
		return reported(err)
	}

	fmt.Fprintln(out, "Uninstalled all wheels successfully")
	return nil
}
