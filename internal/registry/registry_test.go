package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
)

func setupAddon(t *testing.T, wheels ...string) (root, dir string, sync *manifest.Synchronizer) {
	t.Helper()
	root = t.TempDir()
	dir = filepath.Join(root, "wheels")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "blender_manifest.toml")
	if err := os.WriteFile(path, []byte("schema_version = \"1.0.0\"\nwheels = []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sync = manifest.NewSynchronizer(path)
	for _, w := range wheels {
		if err := os.WriteFile(filepath.Join(dir, w), []byte("wheel"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := sync.AddEntry(w); err != nil {
			t.Fatal(err)
		}
	}
	return root, dir, sync
}

func TestListRegistered(t *testing.T) {
	_, dir, _ := setupAddon(t, "b-1.0-py3-none-any.whl", "a-1.0-py3-none-any.whl")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ListRegistered(dir)
	if err != nil {
		t.Fatalf("ListRegistered error: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "a-1.0-py3-none-any.whl" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Path != filepath.Join(dir, "a-1.0-py3-none-any.whl") {
		t.Errorf("Path = %s", entries[0].Path)
	}
}

func TestListRegistered_MissingDir(t *testing.T) {
	entries, err := ListRegistered(filepath.Join(t.TempDir(), "wheels"))
	if err != nil {
		t.Fatalf("ListRegistered error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want empty", entries)
	}
}

func TestRemove_SingleEntry(t *testing.T) {
	_, dir, sync := setupAddon(t, "a-1.0-py3-none-any.whl")
	entries, _ := ListRegistered(dir)
	v := NewView(sync, entries, nil)

	removed, err := v.Remove(0)
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if removed.Name != "a-1.0-py3-none-any.whl" {
		t.Errorf("removed = %+v", removed)
	}
	if v.Len() != 0 {
		t.Errorf("view still has %d entries", v.Len())
	}
	after, _ := ListRegistered(dir)
	if len(after) != 0 {
		t.Errorf("ListRegistered after remove = %+v", after)
	}
	m, _ := sync.Entries()
	if len(m) != 0 {
		t.Errorf("manifest entries after remove = %v", m)
	}
}

func TestRemove_OutOfRange(t *testing.T) {
	_, dir, sync := setupAddon(t, "a-1.0-py3-none-any.whl")
	entries, _ := ListRegistered(dir)
	v := NewView(sync, entries, nil)

	for _, idx := range []int{-1, 1, 42} {
		if _, err := v.Remove(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Remove(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if v.Len() != 1 {
		t.Error("out-of-range remove changed the listing")
	}
}

func TestRemove_MissingFile(t *testing.T) {
	_, dir, sync := setupAddon(t, "a-1.0-py3-none-any.whl")
	entries, _ := ListRegistered(dir)
	if err := os.Remove(entries[0].Path); err != nil {
		t.Fatal(err)
	}
	v := NewView(sync, entries, nil)

	_, err := v.Remove(0)
	if !errors.Is(err, ErrFileSystem) {
		t.Fatalf("error = %v, want ErrFileSystem", err)
	}
	if v.Len() != 0 {
		t.Error("entry for a missing file should still be dropped")
	}
	if m, _ := sync.Entries(); len(m) != 0 {
		t.Errorf("manifest entries = %v, want empty", m)
	}
}

func TestRemove_ManifestFailureKeepsFile(t *testing.T) {
	root, dir, sync := setupAddon(t, "a-1.0-py3-none-any.whl")
	entries, _ := ListRegistered(dir)
	if err := os.WriteFile(filepath.Join(root, "blender_manifest.toml"), []byte("wheels = ["), 0644); err != nil {
		t.Fatal(err)
	}
	v := NewView(sync, entries, nil)

	if _, err := v.Remove(0); !errors.Is(err, manifest.ErrParse) {
		t.Fatalf("error = %v, want manifest.ErrParse", err)
	}
	if _, err := os.Stat(entries[0].Path); err != nil {
		t.Errorf("file should be kept when the manifest update fails: %v", err)
	}
	if v.Len() != 1 {
		t.Error("listing should be unchanged")
	}
}

func TestUninstallAll(t *testing.T) {
	_, dir, sync := setupAddon(t, "a-1.0-py3-none-any.whl", "b-1.0-py3-none-any.whl", "c-1.0-py3-none-any.whl")
	entries, _ := ListRegistered(dir)
	v := NewView(sync, entries, nil)

	n, err := v.UninstallAll()
	if err != nil {
		t.Fatalf("UninstallAll error: %v", err)
	}
	if n != 3 || v.Len() != 0 {
		t.Errorf("removed %d, remaining %d", n, v.Len())
	}
	if after, _ := ListRegistered(dir); len(after) != 0 {
		t.Errorf("files remain: %+v", after)
	}
}

func TestMarkRegistered(t *testing.T) {
	entries := []Entry{{Name: "a.whl"}, {Name: "b.whl"}}
	MarkRegistered(entries, []string{"./wheels/b.whl"})
	if entries[0].Registered || !entries[1].Registered {
		t.Errorf("entries = %+v", entries)
	}
}

func TestClear(t *testing.T) {
	v := NewView(nil, []Entry{{Name: "a.whl"}}, nil)
	v.Clear()
	if v.Len() != 0 {
		t.Error("Clear left entries behind")
	}
}
