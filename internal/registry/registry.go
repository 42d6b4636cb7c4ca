package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/wheel"
)

var (
	// ErrFileSystem is returned when a wheel file cannot be listed or removed.
	ErrFileSystem = errors.New("file system error")
	// ErrIndexOutOfRange is returned by Remove for an index outside the listing.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Entry is one listed wheel.
type Entry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Registered bool   `json:"registered"`
}

// ListRegistered scans dir (non-recursively) for wheel files. A missing
// directory lists as empty.
func ListRegistered(dir string) ([]Entry, error) {
	names, err := wheel.ScanDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrFileSystem, err)
	}
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{Name: n, Path: filepath.Join(dir, n)})
	}
	return entries, nil
}

// MarkRegistered sets Registered on each entry whose canonical manifest
// entry appears in manifestEntries.
func MarkRegistered(entries []Entry, manifestEntries []string) {
	set := make(map[string]bool, len(manifestEntries))
	for _, e := range manifestEntries {
		set[e] = true
	}
	for i := range entries {
		entries[i].Registered = set[manifest.EntryFor(entries[i].Name)]
	}
}

// EntryRemover drops a wheel from the manifest.
type EntryRemover interface {
	RemoveEntry(filename string) (manifest.Change, error)
}

// View is an in-memory listing that supports removal by position.
type View struct {
	remover EntryRemover
	entries []Entry
	logger  *zap.Logger
}

// NewView wraps entries. The slice is copied.
func NewView(remover EntryRemover, entries []Entry, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &View{
		remover: remover,
		entries: cp,
		logger:  logger.With(zap.String("component", "registry")),
	}
}

// Entries returns a copy of the current listing.
func (v *View) Entries() []Entry {
	cp := make([]Entry, len(v.entries))
	copy(cp, v.entries)
	return cp
}

// Len returns the number of listed entries.
func (v *View) Len() int { return len(v.entries) }

// Clear empties the listing without touching disk.
func (v *View) Clear() { v.entries = nil }

// Remove unregisters the entry at index from the manifest, deletes its file,
// and drops it from the listing. If the manifest cannot be updated the file
// is left in place. A file that is already gone still drops the entry but is
// reported as ErrFileSystem.
func (v *View) Remove(index int) (Entry, error) {
	if index < 0 || index >= len(v.entries) {
		return Entry{}, fmt.Errorf("%w: %d (listing has %d entries)", ErrIndexOutOfRange, index, len(v.entries))
	}
	e := v.entries[index]
	log := v.logger.With(zap.String("wheel", e.Name))

	if _, err := v.remover.RemoveEntry(e.Name); err != nil {
		return e, fmt.Errorf("unregistering %s: %w", e.Name, err)
	}

	rmErr := os.Remove(e.Path)
	if rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		log.Error("deleting wheel failed", zap.Error(rmErr))
		return e, fmt.Errorf("%w: deleting %s: %w", ErrFileSystem, e.Path, rmErr)
	}

	v.entries = append(v.entries[:index:index], v.entries[index+1:]...)
	if rmErr != nil {
		log.Warn("wheel file was already missing")
		return e, fmt.Errorf("%w: %s: %w", ErrFileSystem, e.Path, rmErr)
	}
	log.Info("wheel removed")
	return e, nil
}

// UninstallAll removes entries from the front until the listing is empty.
// It stops at the first failure and returns how many were removed.
func (v *View) UninstallAll() (int, error) {
	n := 0
	for len(v.entries) > 0 {
		if _, err := v.Remove(0); err != nil {
			if errors.Is(err, ErrFileSystem) && errors.Is(err, os.ErrNotExist) {
				n++
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}
