package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/install"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
)

var removeCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove a listed wheel and its manifest entry",
	Long: `Remove the wheel at <index> in the last listing shown by "list": its
manifest entry is dropped and the file is deleted. Without a saved listing,
the index refers to a fresh scan of the wheels directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be a number, got %q", args[0])
	}

	a, err := openAddon()
	if err != nil {
		return err
	}
	entries, saved, err := a.displayed()
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	view := registry.NewView(a.manifest, entries, logger())
	removed, err := view.Remove(idx)
	if saved && view.Len() != len(entries) {
		if serr := a.saveListing(view.Entries()); serr != nil {
			logger().Warn("saving listing failed", zap.Error(serr))
		}
	}
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	fmt.Fprintf(out, "Removed %s\n", removed.Name)
	return nil
}
