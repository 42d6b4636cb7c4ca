package cli

import (
	"fmt"
	"time"

	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
	"github.com/wheelhouse-labs/wheelhouse/internal/userdata"
)

// addon bundles the resolved paths of the add-on a command works on.
type addon struct {
	root         string
	wheelsDir    string
	manifestPath string
	manifest     *manifest.Synchronizer
}

func openAddon() (*addon, error) {
	root, err := addonRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving add-on directory: %w", err)
	}
	path := userdata.GetManifestPath(root)
	return &addon{
		root:         root,
		wheelsDir:    userdata.GetWheelsDir(root),
		manifestPath: path,
		manifest:     manifest.NewSynchronizer(path, manifest.WithLogger(logger())),
	}, nil
}

// scan lists the wheels directory and marks entries present in the manifest.
// A manifest that cannot be read leaves every entry unmarked.
func (a *addon) scan() ([]registry.Entry, error) {
	entries, err := registry.ListRegistered(a.wheelsDir)
	if err != nil {
		return nil, err
	}
	if m, err := a.manifest.Entries(); err == nil {
		registry.MarkRegistered(entries, m)
	}
	return entries, nil
}

// displayed returns the listing the user last saw for this add-on, or a fresh
// scan when none was saved.
func (a *addon) displayed() ([]registry.Entry, bool, error) {
	path, err := userdata.GetListingPath()
	if err != nil {
		return nil, false, err
	}
	l, err := registry.LoadListing(path, a.root)
	if err != nil {
		return nil, false, err
	}
	if l != nil {
		return l.Entries, true, nil
	}
	entries, err := a.scan()
	return entries, false, err
}

func (a *addon) saveListing(entries []registry.Entry) error {
	path, err := userdata.GetListingPath()
	if err != nil {
		return err
	}
	return registry.SaveListing(path, &registry.Listing{
		AddonRoot: a.root,
		Entries:   entries,
		ListedAt:  time.Now().UTC(),
	})
}

func clearListing() error {
	path, err := userdata.GetListingPath()
	if err != nil {
		return err
	}
	return registry.DeleteListing(path)
}

// refreshListing rescans and rewrites the saved listing so indexes keep
// matching the wheels on disk. Nothing happens when no listing was saved for
// this add-on.
func (a *addon) refreshListing() error {
	path, err := userdata.GetListingPath()
	if err != nil {
		return err
	}
	l, err := registry.LoadListing(path, a.root)
	if err != nil || l == nil {
		return err
	}
	entries, err := a.scan()
	if err != nil {
		return err
	}
	return a.saveListing(entries)
}
