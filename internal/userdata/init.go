package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wheelhouse-labs/wheelhouse/internal/platform"
)

// Minimal manifest written when an add-on has none yet.
const defaultManifestContent = `schema_version = "1.0.0"
wheels = []
`

// InitAddon creates the wheels/ directory and a minimal manifest under
// addonRoot. It prints progress messages to w. Existing items are skipped.
func InitAddon(w io.Writer, addonRoot string) error {
	if err := ensureDir(w, addonRoot, DirPermNormal); err != nil {
		return err
	}
	if err := ensureDir(w, GetWheelsDir(addonRoot), DirPermNormal); err != nil {
		return err
	}
	return ensureFile(w, GetManifestPath(addonRoot), defaultManifestContent, FilePermNormal)
}

// EnsureWheelsDir creates <addon>/wheels if it does not exist.
func EnsureWheelsDir(addonRoot string) (string, error) {
	dir := GetWheelsDir(addonRoot)
	if err := os.MkdirAll(dir, DirPermNormal); err != nil {
		return "", fmt.Errorf("creating wheels directory %s: %w", dir, err)
	}
	return dir, nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPermNormal); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
