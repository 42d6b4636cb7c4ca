package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_MissingWheelsIsEmpty(t *testing.T) {
	doc, err := Parse([]byte(`schema_version = "1.0.0"`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := doc.Wheels(); len(got) != 0 {
		t.Errorf("Wheels() = %v, want empty", got)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"not toml":      `wheels = [`,
		"wheels string": `wheels = "./wheels/a.whl"`,
		"wheels ints":   `wheels = [1, 2]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); !errors.Is(err, ErrParse) {
				t.Errorf("Parse error = %v, want ErrParse", err)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "blender_manifest.toml"))
	if !errors.Is(err, ErrRead) {
		t.Fatalf("Load error = %v, want ErrRead", err)
	}
}

func TestSave_PreservesOtherKeys(t *testing.T) {
	src, err := os.ReadFile(testPath("valid.toml"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "blender_manifest.toml")
	if err := os.WriteFile(path, src, 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	doc.Add(EntryFor("urllib3-2.2.2-py3-none-any.whl"))
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if again.raw["id"] != "wheel_demo" {
		t.Errorf("id = %v, want wheel_demo", again.raw["id"])
	}
	perms, ok := again.raw["permissions"].(map[string]any)
	if !ok || perms["network"] == nil {
		t.Errorf("permissions table lost: %v", again.raw["permissions"])
	}
	want := []string{
		"./wheels/requests-2.32.3-py3-none-any.whl",
		"./wheels/idna-3.7-py3-none-any.whl",
		"./wheels/urllib3-2.2.2-py3-none-any.whl",
	}
	got := again.Wheels()
	if len(got) != len(want) {
		t.Fatalf("Wheels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Wheels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilenameOf(t *testing.T) {
	tests := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"./wheels/a-1.0-py3-none-any.whl", "a-1.0-py3-none-any.whl", true},
		{"wheels/a.whl", "", false},
		{"./wheels/", "", false},
		{"./wheels/sub/a.whl", "", false},
	}
	for _, tt := range tests {
		got, ok := FilenameOf(tt.entry)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FilenameOf(%q) = %q, %v; want %q, %v", tt.entry, got, ok, tt.want, tt.ok)
		}
	}
}
