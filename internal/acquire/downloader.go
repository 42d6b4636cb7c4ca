package acquire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Downloader fetches a package's wheels into destDir.
type Downloader interface {
	Download(ctx context.Context, name, destDir string) error
}

// LineFunc receives each line of downloader output as it is produced.
type LineFunc func(stream, line string)

// ExecDownloader runs an external command without a shell. The final argv is
// Argv followed by "--dest", destDir, "--", name.
type ExecDownloader struct {
	Argv   []string
	Logger *zap.Logger
	// OnLine is called for every output line; calls never overlap.
	OnLine LineFunc

	mu sync.Mutex
}

// DefaultArgv is the downloader used when none is configured.
var DefaultArgv = []string{"pip", "download"}

// NewExecDownloader returns an ExecDownloader for argv, falling back to
// DefaultArgv when argv is empty.
func NewExecDownloader(argv []string, logger *zap.Logger) *ExecDownloader {
	if len(argv) == 0 {
		argv = DefaultArgv
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecDownloader{Argv: argv, Logger: logger}
}

// Command returns the argv that Download would execute.
func (d *ExecDownloader) Command(name, destDir string) []string {
	argv := make([]string, 0, len(d.Argv)+4)
	argv = append(argv, d.Argv...)
	return append(argv, "--dest", destDir, "--", name)
}

// Download runs the command, streaming stdout and stderr line by line to the
// logger. A non-zero exit is an error.
func (d *ExecDownloader) Download(ctx context.Context, name, destDir string) error {
	if len(d.Argv) == 0 {
		return errors.New("no downloader command configured")
	}
	argv := d.Command(name, destDir)
	log := d.Logger.With(zap.String("package", name))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("getting stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("getting stderr pipe: %w", err)
	}

	log.Info("starting downloader", zap.Strings("argv", argv))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", argv[0], err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go d.stream(&wg, log, "stdout", stdout)
	go d.stream(&wg, log, "stderr", stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}

func (d *ExecDownloader) stream(wg *sync.WaitGroup, log *zap.Logger, name string, r io.Reader) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		log.Info(line, zap.String("stream", name))
		if d.OnLine != nil {
			d.mu.Lock()
			d.OnLine(name, line)
			d.mu.Unlock()
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("reading downloader output", zap.String("stream", name), zap.Error(err))
		// Keep the pipe drained so the child does not block on a full buffer.
		_, _ = io.Copy(io.Discard, r)
	}
}
