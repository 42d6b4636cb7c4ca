package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-labs/wheelhouse/internal/install"
	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
)

var (
	doctorFix   bool
	doctorPrune bool
)

var errProblemsFound = errors.New("problems found")

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Drop manifest entries whose wheel file is missing")
	doctorCmd.Flags().BoolVar(&doctorPrune, "prune", false, "Delete wheel files that have no manifest entry")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the manifest against the wheels directory",
	Long: `Validate the add-on manifest and reconcile it with the wheels/ directory.
The manifest is authoritative: --fix drops entries whose file is missing and
--prune deletes files the manifest does not list.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := openAddon()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Manifest: %s\n", a.manifestPath)
	problems, err := checkManifestSchema(out, a.manifestPath)
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	manifestEntries, err := a.manifest.Entries()
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}
	entries, err := registry.ListRegistered(a.wheelsDir)
	if err != nil {
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	fmt.Fprintf(out, "Wheels: %s (%d on disk, %d in manifest)\n", a.wheelsDir, len(entries), len(manifestEntries))
	report := registry.Reconcile(entries, manifestEntries)
	problems += printReport(out, report)

	fixed := 0
	if doctorFix && len(report.Dangling) > 0 {
		n, err := a.manifest.RemoveRaw(report.Dangling...)
		if err != nil {
			fmt.Fprintln(out, install.StatusMessage(err))
			return reported(err)
		}
		fmt.Fprintf(out, "  [FIX ] dropped %d dangling manifest entr%s\n", n, plural(n, "y", "ies"))
		fixed += n
	}
	if doctorPrune {
		for _, o := range report.Orphans {
			if err := os.Remove(o.Path); err != nil {
				fmt.Fprintf(out, "  [FAIL] deleting %s: %v\n", o.Name, err)
				continue
			}
			fmt.Fprintf(out, "  [FIX ] deleted %s\n", o.Name)
			fixed++
		}
	}

	remaining := problems - fixed
	switch {
	case problems == 0:
		fmt.Fprintln(out, "No problems found")
		return nil
	case remaining <= 0:
		fmt.Fprintf(out, "Fixed %d problem%s\n", fixed, plural(fixed, "", "s"))
		return nil
	default:
		fmt.Fprintf(out, "Found %d problem%s\n", remaining, plural(remaining, "", "s"))
		return reported(errProblemsFound)
	}
}

func checkManifestSchema(w io.Writer, path string) (int, error) {
	result, err := manifest.ValidateFile(path)
	if err != nil {
		return 0, err
	}
	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] schema")
		return 0, nil
	}
	for _, issue := range result.Issues {
		loc := issue.Path
		if loc == "" {
			loc = "/"
		}
		if issue.Entry != "" {
			fmt.Fprintf(w, "  [WARN] %s (%q): %s\n", loc, issue.Entry, issue.Message)
			continue
		}
		fmt.Fprintf(w, "  [WARN] %s: %s\n", loc, issue.Message)
	}
	return len(result.Issues), nil
}

func printReport(w io.Writer, r registry.Report) int {
	if r.Clean() {
		fmt.Fprintln(w, "  [ OK ] manifest and directory agree")
		return 0
	}
	n := 0
	for _, o := range r.Orphans {
		fmt.Fprintf(w, "  [WARN] %s has no manifest entry\n", o.Name)
		n++
	}
	for _, d := range r.Dangling {
		fmt.Fprintf(w, "  [WARN] %s is listed but the file is missing\n", d)
		n++
	}
	for _, f := range r.Foreign {
		fmt.Fprintf(w, "  [INFO] %s is outside %s\n", f, manifest.EntryPrefix)
	}
	for project, files := range r.Duplicates {
		fmt.Fprintf(w, "  [INFO] several versions of %s: %s\n", project, strings.Join(files, ", "))
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
