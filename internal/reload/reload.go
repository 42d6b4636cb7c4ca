package reload

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reloader triggers a host reload.
type Reloader interface {
	Reload(ctx context.Context) error
}

// CommandReloader runs an external command (no shell) to reload the host.
type CommandReloader struct {
	Argv   []string
	Logger *zap.Logger
}

// Reload runs the command and logs its combined output.
func (c CommandReloader) Reload(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return fmt.Errorf("no reload command configured")
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	out, err := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...).CombinedOutput()
	if len(out) > 0 {
		log.Info("reload output", zap.ByteString("output", out))
	}
	if err != nil {
		return fmt.Errorf("running reload command %s: %w", c.Argv[0], err)
	}
	return nil
}

// LogReloader only records that a reload was requested. It is used when no
// reload command is configured and the host picks up changes on its own.
type LogReloader struct {
	Logger *zap.Logger
}

// Reload logs the request.
func (l LogReloader) Reload(context.Context) error {
	if l.Logger != nil {
		l.Logger.Info("host reload requested")
	}
	return nil
}

// New returns a CommandReloader for argv, or a LogReloader when argv is empty.
func New(argv []string, logger *zap.Logger) Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(argv) == 0 {
		return LogReloader{Logger: logger}
	}
	return CommandReloader{Argv: argv, Logger: logger}
}

// Scheduler defers reloads by a fixed delay.
type Scheduler struct {
	reloader Reloader
	delay    time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	wg sync.WaitGroup
}

// DefaultTimeout bounds a single reload command.
const DefaultTimeout = time.Minute

// NewScheduler returns a Scheduler that runs r after delay.
func NewScheduler(r Reloader, delay time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		reloader: r,
		delay:    delay,
		timeout:  DefaultTimeout,
		logger:   logger.With(zap.String("component", "reload")),
	}
}

// Schedule arranges for a reload after the configured delay. It never
// blocks; failures are logged.
func (s *Scheduler) Schedule(reason string) {
	s.wg.Add(1)
	s.logger.Debug("reload scheduled", zap.String("reason", reason), zap.Duration("delay", s.delay))
	time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.Now(reason)
	})
}

// Now runs a reload immediately and reports its error.
func (s *Scheduler) Now(reason string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Error("reload failed", zap.String("reason", reason), zap.Error(err))
		return err
	}
	s.logger.Info("host reloaded", zap.String("reason", reason))
	return nil
}

// Wait blocks until every scheduled reload has run.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
