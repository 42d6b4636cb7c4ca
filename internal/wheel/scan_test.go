package wheel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b-1.0-py3-none-any.whl", "a-1.0-py3-none-any.whl", "notes.txt", "c.tar.gz"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested.whl", "inner"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested.whl", "inner", "d-1.0-py3-none-any.whl"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir error: %v", err)
	}
	want := []string{"a-1.0-py3-none-any.whl", "b-1.0-py3-none-any.whl"}
	if len(got) != len(want) {
		t.Fatalf("ScanDir = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ScanDir[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanDir_Missing(t *testing.T) {
	if _, err := ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
