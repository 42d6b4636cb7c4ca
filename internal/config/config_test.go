package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/wheelhouse-labs/wheelhouse/internal/index"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestCurrent_Defaults(t *testing.T) {
	isolate(t)
	Load()

	s := Current()
	if s.IndexURL != DefaultIndexURL {
		t.Errorf("IndexURL = %q, want %q", s.IndexURL, DefaultIndexURL)
	}
	if s.IndexTimeout != DefaultIndexTimeout {
		t.Errorf("IndexTimeout = %v, want %v", s.IndexTimeout, DefaultIndexTimeout)
	}
	if !s.OnlineAccess {
		t.Error("OnlineAccess should default to true")
	}
	if len(s.Downloader) != 2 || s.Downloader[0] != "pip" || s.Downloader[1] != "download" {
		t.Errorf("Downloader = %v, want [pip download]", s.Downloader)
	}
	if len(s.ReloadCommand) != 0 {
		t.Errorf("ReloadCommand = %v, want empty", s.ReloadCommand)
	}
	if s.ReloadDelay != DefaultReloadDelay {
		t.Errorf("ReloadDelay = %v, want %v", s.ReloadDelay, DefaultReloadDelay)
	}
	if s.CleanupOnFailure {
		t.Error("CleanupOnFailure should default to false")
	}
}

func TestIndexDefaultsFollowChecker(t *testing.T) {
	isolate(t)
	Load()

	s := Current()
	if s.IndexURL != index.DefaultBaseURL {
		t.Errorf("IndexURL = %q, want checker default %q", s.IndexURL, index.DefaultBaseURL)
	}
	if s.IndexTimeout != index.DefaultTimeout {
		t.Errorf("IndexTimeout = %v, want checker default %v", s.IndexTimeout, index.DefaultTimeout)
	}
}

func TestCurrent_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("WHEELHOUSE_INDEX_URL", "http://mirror.local/pypi/")
	t.Setenv("WHEELHOUSE_ONLINE_ACCESS", "false")
	t.Setenv("WHEELHOUSE_RELOAD_DELAY", "250ms")
	Load()

	s := Current()
	if s.IndexURL != "http://mirror.local/pypi" {
		t.Errorf("IndexURL = %q, want trailing slash trimmed", s.IndexURL)
	}
	if s.OnlineAccess {
		t.Error("OnlineAccess should be false from env")
	}
	if s.ReloadDelay != 250*time.Millisecond {
		t.Errorf("ReloadDelay = %v, want 250ms", s.ReloadDelay)
	}
}

func TestSet_WritesConfigFile(t *testing.T) {
	home := isolate(t)
	Load()

	if err := Set(KeyReloadCommand, "blender --refresh"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	path := filepath.Join(home, ".wheelhouse", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	viper.Reset()
	Load()
	if got := Current().ReloadCommand; len(got) != 2 || got[0] != "blender" {
		t.Errorf("ReloadCommand after reload = %v", got)
	}
}
