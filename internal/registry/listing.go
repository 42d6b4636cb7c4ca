package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wheelhouse-labs/wheelhouse/internal/platform"
)

// Listing is the snapshot of what "list" last displayed.
type Listing struct {
	AddonRoot string    `json:"addon_root"`
	Entries   []Entry   `json:"entries"`
	ListedAt  time.Time `json:"listed_at"`
}

// LoadListing reads the snapshot at path. It returns nil, nil when no
// snapshot exists or when the snapshot belongs to a different add-on.
func LoadListing(path, addonRoot string) (*Listing, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	var l Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}
	if l.AddonRoot != addonRoot {
		return nil, nil
	}
	return &l, nil
}

// SaveListing writes the snapshot to path.
func SaveListing(path string, l *Listing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling listing: %w", err)
	}
	if err := platform.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// DeleteListing removes the snapshot. A missing snapshot is not an error.
func DeleteListing(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting listing: %w", err)
	}
	return nil
}
