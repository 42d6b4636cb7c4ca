package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/wheel"
)

// ErrDownloadFailed is wrapped by every failed Result.
var ErrDownloadFailed = errors.New("download failed")

const dirPerm os.FileMode = 0755

// Artifact is a wheel file present in the destination directory.
type Artifact struct {
	Filename string
	Path     string
	// New is true when the file appeared during this acquisition.
	New bool
}

// Result is the outcome of one acquisition.
type Result struct {
	Package   string
	Artifacts []Artifact
	Err       error
}

// OK reports whether the acquisition succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Worker runs a Downloader and rescans the destination afterwards.
type Worker struct {
	downloader       Downloader
	cleanupOnFailure bool
	logger           *zap.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithCleanupOnFailure removes wheels that appeared during a failed
// acquisition. By default they are kept so a retry can reuse them.
func WithCleanupOnFailure(enabled bool) WorkerOption {
	return func(w *Worker) { w.cleanupOnFailure = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) WorkerOption {
	return func(w *Worker) { w.logger = l }
}

// NewWorker returns a Worker using d.
func NewWorker(d Downloader, opts ...WorkerOption) *Worker {
	w := &Worker{downloader: d, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(zap.String("component", "acquire"))
	return w
}

// Acquire downloads name into destDir and returns every wheel found there.
// Cancellation of ctx is ignored: once started, the download runs to
// completion or failure.
func (w *Worker) Acquire(ctx context.Context, name, destDir string) (res Result) {
	res.Package = name
	log := w.logger.With(zap.String("package", name), zap.String("dest", destDir))

	defer func() {
		if r := recover(); r != nil {
			res.Artifacts = nil
			res.Err = fmt.Errorf("%w: downloader panicked: %v", ErrDownloadFailed, r)
			log.Error("acquisition panicked", zap.Any("panic", r))
		}
	}()

	if err := os.MkdirAll(destDir, dirPerm); err != nil {
		return w.fail(log, res, fmt.Errorf("creating %s: %w", destDir, err))
	}
	before, err := wheel.ScanDir(destDir)
	if err != nil {
		return w.fail(log, res, err)
	}

	if err := w.downloader.Download(context.WithoutCancel(ctx), name, destDir); err != nil {
		w.cleanup(log, destDir, before)
		return w.fail(log, res, err)
	}

	after, err := wheel.ScanDir(destDir)
	if err != nil {
		return w.fail(log, res, err)
	}
	if len(after) == 0 {
		return w.fail(log, res, errors.New("no wheels produced"))
	}

	existing := toSet(before)
	for _, f := range after {
		res.Artifacts = append(res.Artifacts, Artifact{
			Filename: f,
			Path:     filepath.Join(destDir, f),
			New:      !existing[f],
		})
	}
	log.Info("acquisition finished", zap.Int("artifacts", len(res.Artifacts)))
	return res
}

func (w *Worker) fail(log *zap.Logger, res Result, err error) Result {
	log.Error("acquisition failed", zap.Error(err))
	res.Artifacts = nil
	res.Err = fmt.Errorf("%w: %s: %w", ErrDownloadFailed, res.Package, err)
	return res
}

func (w *Worker) cleanup(log *zap.Logger, destDir string, before []string) {
	if !w.cleanupOnFailure {
		return
	}
	after, err := wheel.ScanDir(destDir)
	if err != nil {
		log.Warn("cleanup scan failed", zap.Error(err))
		return
	}
	existing := toSet(before)
	for _, f := range after {
		if existing[f] {
			continue
		}
		if err := os.Remove(filepath.Join(destDir, f)); err != nil {
			log.Warn("cleanup failed", zap.String("file", f), zap.Error(err))
			continue
		}
		log.Info("removed partial download", zap.String("file", f))
	}
}

func toSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}
