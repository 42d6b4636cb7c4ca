package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wheelhouse-labs/wheelhouse/internal/branding"
)

// Directory and file name constants for the add-on layout.
const (
	WheelsDir    = "wheels"
	ManifestFile = "blender_manifest.toml"
	ListingFile  = "listing.json"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetAddonRoot returns the add-on directory that holds the manifest and the
// wheels/ directory. It checks the WHEELHOUSE_ADDON environment variable
// first, then falls back to the current working directory.
func GetAddonRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("ADDON")); v != "" {
		return filepath.Abs(v)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

// GetWheelsDir returns <addon>/wheels.
func GetWheelsDir(addonRoot string) string {
	return filepath.Join(addonRoot, WheelsDir)
}

// GetManifestPath returns <addon>/blender_manifest.toml.
func GetManifestPath(addonRoot string) string {
	return filepath.Join(addonRoot, ManifestFile)
}

// GetStateRoot returns the directory used for CLI state such as the last
// displayed listing. It checks WHEELHOUSE_STATE first, then falls back to
// ~/.wheelhouse.
func GetStateRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("STATE")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetListingPath returns the path of the persisted listing snapshot.
func GetListingPath() (string, error) {
	root, err := GetStateRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ListingFile), nil
}
