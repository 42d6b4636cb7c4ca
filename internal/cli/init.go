package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-labs/wheelhouse/internal/userdata"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the wheels directory and a minimal manifest",
	Long: `Prepare an add-on directory for wheel installs: create wheels/ and, if
missing, a blender_manifest.toml with an empty "wheels" list. Existing files
are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := addonRoot()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initializing add-on at %s\n", root)
		if err := userdata.InitAddon(cmd.OutOrStdout(), root); err != nil {
			return fmt.Errorf("initializing add-on: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Initialized successfully")
		return nil
	},
}
