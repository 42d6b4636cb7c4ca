package manifest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/wheelhouse-labs/wheelhouse/internal/platform"
)

// WheelsKey is the manifest field holding registered wheel paths.
const WheelsKey = "wheels"

// EntryPrefix is prepended to a wheel filename to form its manifest entry.
const EntryPrefix = "./wheels/"

var (
	// ErrRead is returned when the manifest file cannot be read.
	ErrRead = errors.New("manifest read failed")
	// ErrParse is returned when the manifest is not valid TOML or its
	// wheels field is not a list of strings.
	ErrParse = errors.New("manifest parse failed")
	// ErrWrite is returned when the manifest cannot be written back.
	ErrWrite = errors.New("manifest write failed")
)

const filePerm os.FileMode = 0644

// Document is a fully parsed manifest held in memory.
type Document struct {
	raw    map[string]any
	wheels []string
}

// EntryFor returns the canonical manifest entry for a wheel filename.
func EntryFor(filename string) string {
	return EntryPrefix + filename
}

// FilenameOf returns the wheel filename an entry refers to, and false if the
// entry does not use the canonical prefix.
func FilenameOf(entry string) (string, bool) {
	if !strings.HasPrefix(entry, EntryPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(entry, EntryPrefix)
	if name == "" || path.Base(name) != name {
		return "", false
	}
	return name, true
}

// Load reads and parses the manifest at path. A missing wheels field is
// treated as an empty list.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes manifest bytes.
func Parse(data []byte) (*Document, error) {
	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	doc := &Document{raw: raw}
	v, ok := raw[WheelsKey]
	if !ok {
		return doc, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array, got %T", ErrParse, WheelsKey, v)
	}
	doc.wheels = make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrParse, WheelsKey, i, item)
		}
		doc.wheels = append(doc.wheels, s)
	}
	return doc, nil
}

// Wheels returns a copy of the wheels list in manifest order.
func (d *Document) Wheels() []string {
	out := make([]string, len(d.wheels))
	copy(out, d.wheels)
	return out
}

// Contains reports whether entry is present.
func (d *Document) Contains(entry string) bool {
	for _, w := range d.wheels {
		if w == entry {
			return true
		}
	}
	return false
}

// Add appends entry unless it is already present. It reports whether the
// document changed.
func (d *Document) Add(entry string) bool {
	if d.Contains(entry) {
		return false
	}
	d.wheels = append(d.wheels, entry)
	return true
}

// Remove deletes every occurrence of entry. It reports whether the document
// changed.
func (d *Document) Remove(entry string) bool {
	kept := d.wheels[:0:0]
	for _, w := range d.wheels {
		if w != entry {
			kept = append(kept, w)
		}
	}
	changed := len(kept) != len(d.wheels)
	d.wheels = kept
	return changed
}

// Marshal serializes the whole document, wheels included.
func (d *Document) Marshal() ([]byte, error) {
	out := make(map[string]any, len(d.raw)+1)
	for k, v := range d.raw {
		out[k] = v
	}
	wheels := make([]any, len(d.wheels))
	for i, w := range d.wheels {
		wheels[i] = w
	}
	out[WheelsKey] = wheels

	data, err := toml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding: %w", ErrWrite, err)
	}
	return data, nil
}

// Save serializes the document and atomically replaces the file at path.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := platform.WriteFileAtomic(path, data, filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}
