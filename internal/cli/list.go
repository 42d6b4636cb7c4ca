package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-labs/wheelhouse/internal/install"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List wheels in the add-on's wheels directory",
	Long: `List the wheel files in the add-on's wheels/ directory. The listing is
remembered so that "remove <index>" refers to the entries shown here.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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
	if err := a.saveListing(entries); err != nil {
		return err
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling listing: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No wheels found")
		return nil
	}
	printEntries(cmd, entries)
	fmt.Fprintf(out, "%d wheel(s) in %s\n", len(entries), a.wheelsDir)
	return nil
}

func printEntries(cmd *cobra.Command, entries []registry.Entry) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tWHEEL\tMANIFEST")
	for i, e := range entries {
		status := "registered"
		if !e.Registered {
			status = "not registered"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, e.Name, status)
	}
	w.Flush()
}
