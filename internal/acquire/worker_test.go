package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type downloadFunc func(ctx context.Context, name, destDir string) error

func (f downloadFunc) Download(ctx context.Context, name, destDir string) error {
	return f(ctx, name, destDir)
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("wheel"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func producing(files ...string) downloadFunc {
	return func(_ context.Context, _, destDir string) error {
		for _, f := range files {
			if err := os.WriteFile(filepath.Join(destDir, f), []byte("wheel"), 0644); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestAcquire_ReturnsAllWheels(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "wheels")
	w := NewWorker(producing("a-1.0-py3-none-any.whl", "b-2.0-py3-none-any.whl", "README.txt"))

	res := w.Acquire(context.Background(), "a", dest)
	if !res.OK() {
		t.Fatalf("Acquire failed: %v", res.Err)
	}
	if len(res.Artifacts) != 2 {
		t.Fatalf("artifacts = %+v, want 2", res.Artifacts)
	}
	for _, a := range res.Artifacts {
		if !a.New {
			t.Errorf("%s should be marked new", a.Filename)
		}
		if a.Path != filepath.Join(dest, a.Filename) {
			t.Errorf("Path = %s", a.Path)
		}
	}
}

func TestAcquire_MarksPreexistingFiles(t *testing.T) {
	dest := t.TempDir()
	touch(t, dest, "old-0.1-py3-none-any.whl")

	res := NewWorker(producing("new-1.0-py3-none-any.whl")).Acquire(context.Background(), "new", dest)
	if !res.OK() {
		t.Fatalf("Acquire failed: %v", res.Err)
	}
	got := map[string]bool{}
	for _, a := range res.Artifacts {
		got[a.Filename] = a.New
	}
	if got["old-0.1-py3-none-any.whl"] || !got["new-1.0-py3-none-any.whl"] || len(got) != 2 {
		t.Errorf("artifacts = %+v", res.Artifacts)
	}
}

func TestAcquire_Failures(t *testing.T) {
	tests := []struct {
		name string
		d    downloadFunc
	}{
		{"downloader error", func(context.Context, string, string) error { return errors.New("exit status 1") }},
		{"no wheels", producing("only.tar.gz")},
		{"panic", func(context.Context, string, string) error { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewWorker(tt.d).Acquire(context.Background(), "pkg", t.TempDir())
			if res.OK() {
				t.Fatal("expected failure")
			}
			if !errors.Is(res.Err, ErrDownloadFailed) {
				t.Errorf("Err = %v, want ErrDownloadFailed", res.Err)
			}
			if len(res.Artifacts) != 0 {
				t.Errorf("failed result carries artifacts: %+v", res.Artifacts)
			}
		})
	}
}

func TestAcquire_PartialFilesPolicy(t *testing.T) {
	partial := func(_ context.Context, _, destDir string) error {
		_ = os.WriteFile(filepath.Join(destDir, "half-1.0-py3-none-any.whl"), nil, 0644)
		return errors.New("connection reset")
	}

	t.Run("kept by default", func(t *testing.T) {
		dest := t.TempDir()
		NewWorker(downloadFunc(partial)).Acquire(context.Background(), "half", dest)
		if _, err := os.Stat(filepath.Join(dest, "half-1.0-py3-none-any.whl")); err != nil {
			t.Errorf("partial file should be kept: %v", err)
		}
	})

	t.Run("removed with cleanup", func(t *testing.T) {
		dest := t.TempDir()
		touch(t, dest, "keep-1.0-py3-none-any.whl")
		NewWorker(downloadFunc(partial), WithCleanupOnFailure(true)).Acquire(context.Background(), "half", dest)
		if _, err := os.Stat(filepath.Join(dest, "half-1.0-py3-none-any.whl")); !os.IsNotExist(err) {
			t.Errorf("partial file should be removed, stat err = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dest, "keep-1.0-py3-none-any.whl")); err != nil {
			t.Errorf("pre-existing file must survive cleanup: %v", err)
		}
	})
}

func TestAcquire_IgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCanceled bool
	d := func(ctx context.Context, name, destDir string) error {
		sawCanceled = ctx.Err() != nil
		return producing("x-1.0-py3-none-any.whl")(ctx, name, destDir)
	}
	res := NewWorker(downloadFunc(d)).Acquire(ctx, "x", t.TempDir())
	if !res.OK() {
		t.Fatalf("Acquire failed: %v", res.Err)
	}
	if sawCanceled {
		t.Error("downloader observed caller cancellation")
	}
}
