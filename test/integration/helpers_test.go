//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/wheelhouse-labs/wheelhouse/internal/userdata"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	AddonDir   string // WHEELHOUSE_ADDON, holds wheels/ and the manifest
	StateDir   string // WHEELHOUSE_STATE, listing snapshot
	Downloader string // path to the fake pip script
	IndexURL   string // fake package index
}

// fakePip mimics `pip download --dest <dir> -- <name>`. The package "slow"
// sleeps before producing its wheel; "broken" leaves a partial file and
// exits non-zero.
const fakePip = `#!/bin/sh
dest=""
while [ $# -gt 0 ]; do
  case "$1" in
    --dest) dest="$2"; shift 2 ;;
    --) shift; break ;;
    *) shift ;;
  esac
done
name="$1"
echo "Collecting $name"
case "$name" in
  slow) sleep 1 ;;
  broken)
    : > "$dest/broken-0.1-py3-none-any.whl"
    echo "ERROR: connection reset" >&2
    exit 2 ;;
esac
: > "$dest/$name-1.0-py3-none-any.whl"
: > "$dest/certifi-2024.7.4-py3-none-any.whl"
echo "Saved $dest/$name-1.0-py3-none-any.whl"
`

// knownPackages are answered with 200 by the fake index.
var knownPackages = []string{"requests", "slow", "broken", "idna"}

// setupTestEnv creates isolated temp directories, a fake index and a fake
// downloader, and points the WHEELHOUSE_* variables at them.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake downloader is a shell script")
	}

	env := &testEnv{
		AddonDir: filepath.Join(t.TempDir(), "addon"),
		StateDir: t.TempDir(),
	}

	env.Downloader = filepath.Join(t.TempDir(), "pip")
	writeFile(t, env.Downloader, fakePip)
	if err := os.Chmod(env.Downloader, 0755); err != nil {
		t.Fatalf("chmod downloader: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range knownPackages {
			if r.URL.Path == "/"+p+"/json" {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"info":{"name":"` + p + `","version":"1.0"}}`))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	env.IndexURL = srv.URL

	t.Setenv("WHEELHOUSE_ADDON", env.AddonDir)
	t.Setenv("WHEELHOUSE_STATE", env.StateDir)

	if err := userdata.InitAddon(new(strings.Builder), env.AddonDir); err != nil {
		t.Fatalf("InitAddon: %v", err)
	}
	return env
}

// writeFile creates a file with the given content, creating parent dirs.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file to exist: %s", path)
		return
	}
	if info.IsDir() {
		t.Errorf("expected file but got directory: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected path to not exist: %s", path)
	}
}

func assertEntries(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("manifest entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
