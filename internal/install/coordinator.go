package install

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/acquire"
	"github.com/wheelhouse-labs/wheelhouse/internal/index"
	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/wheel"
)

// Checker confirms a package exists on the index.
type Checker interface {
	Exists(ctx context.Context, name string) index.Availability
}

// Acquirer downloads a package's wheels.
type Acquirer interface {
	Acquire(ctx context.Context, name, destDir string) acquire.Result
}

// Registrar records an acquired wheel in the manifest.
type Registrar interface {
	AddEntry(filename string) (manifest.Change, error)
}

// ReloadScheduler defers a host reload.
type ReloadScheduler interface {
	Schedule(reason string)
}

type noReload struct{}

func (noReload) Schedule(string) {}

// Coordinator runs install sessions one at a time.
type Coordinator struct {
	checker   Checker
	acquirer  Acquirer
	registrar Registrar
	reloader  ReloadScheduler
	destDir   string
	online    func() bool
	logger    *zap.Logger

	busy    atomic.Bool
	current atomic.Pointer[Session]
	wg      sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithReloadScheduler sets what runs after a session finishes downloading.
func WithReloadScheduler(r ReloadScheduler) Option {
	return func(c *Coordinator) { c.reloader = r }
}

// WithConnectivity sets the probe consulted before every install. The
// default reports online.
func WithConnectivity(online func() bool) Option {
	return func(c *Coordinator) { c.online = online }
}

// New returns a Coordinator that downloads into destDir.
func New(checker Checker, acquirer Acquirer, registrar Registrar, destDir string, opts ...Option) *Coordinator {
	c := &Coordinator{
		checker:   checker,
		acquirer:  acquirer,
		registrar: registrar,
		reloader:  noReload{},
		destDir:   destDir,
		online:    func() bool { return true },
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "install"))
	return c
}

// Busy reports whether a session is active.
func (c *Coordinator) Busy() bool { return c.busy.Load() }

// Current returns the active session, or nil.
func (c *Coordinator) Current() *Session {
	if !c.busy.Load() {
		return nil
	}
	return c.current.Load()
}

// Wait blocks until the background part of any started session is done.
func (c *Coordinator) Wait() { c.wg.Wait() }

// Install starts a session for name. Validation and the availability lookup
// happen before Install returns; a failure there returns the finished
// session together with its error. On success the download continues in the
// background and the session's Done channel reports completion.
//
// ErrInstallInProgress is returned with a nil session.
func (c *Coordinator) Install(ctx context.Context, name string) (*Session, error) {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Warn("install rejected", zap.String("package", name), zap.Error(ErrInstallInProgress))
		return nil, ErrInstallInProgress
	}

	name = strings.TrimSpace(name)
	s := newSession(name)
	c.current.Store(s)
	log := c.logger.With(zap.String("session", s.ID), zap.String("package", name))

	s.transition(Validating)
	if err := c.validate(name); err != nil {
		return s, c.fail(log, s, err)
	}

	s.transition(CheckingAvailability)
	switch avail := c.checker.Exists(ctx, name); avail {
	case index.Found:
	case index.NotFound:
		return s, c.fail(log, s, fmt.Errorf("%w: %s", ErrPackageNotFound, name))
	default:
		return s, c.fail(log, s, fmt.Errorf("%w: %s", ErrAvailabilityInconclusive, name))
	}

	s.transition(Downloading)
	log.Info("download started", zap.String("dest", c.destDir))
	c.wg.Add(1)
	go c.run(context.WithoutCancel(ctx), log, s)
	return s, nil
}

func (c *Coordinator) validate(name string) error {
	if !c.online() {
		return ErrNoConnectivity
	}
	if name == "" {
		return ErrEmptyInput
	}
	if !wheel.ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, log *zap.Logger, s *Session) {
	defer c.wg.Done()

	res := c.acquirer.Acquire(ctx, s.Package, c.destDir)
	if res.Err != nil || len(res.Artifacts) == 0 {
		err := res.Err
		if err == nil {
			err = fmt.Errorf("%w: no artifacts", acquire.ErrDownloadFailed)
		} else if !errors.Is(err, acquire.ErrDownloadFailed) {
			err = fmt.Errorf("%w: %w", acquire.ErrDownloadFailed, err)
		}
		c.reloader.Schedule("install failed: " + s.Package)
		c.fail(log, s, err)
		return
	}
	s.setArtifacts(res.Artifacts)

	s.transition(UpdatingManifest)
	var errs []error
	for _, a := range res.Artifacts {
		change, err := c.registrar.AddEntry(a.Filename)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.addChange(change)
	}
	if err := errors.Join(errs...); err != nil {
		c.reloader.Schedule("install failed: " + s.Package)
		c.fail(log, s, err)
		return
	}

	s.transition(Reloading)
	c.reloader.Schedule("installed " + s.Package)

	c.busy.Store(false)
	s.finish(Idle, nil)
	log.Info("install finished", zap.Int("artifacts", len(res.Artifacts)))
}

func (c *Coordinator) fail(log *zap.Logger, s *Session, err error) error {
	log.Error("install failed", zap.Stringer("state", s.State()), zap.Error(err))
	c.busy.Store(false)
	s.finish(Failed, err)
	return err
}
