package manifest

import (
	"sync"

	"go.uber.org/zap"
)

// Op is the effect a mutation had on the manifest.
type Op int

const (
	// OpNone means the manifest already had the requested shape.
	OpNone Op = iota
	// OpAdded means an entry was appended.
	OpAdded
	// OpRemoved means an entry was removed.
	OpRemoved
)

func (o Op) String() string {
	switch o {
	case OpAdded:
		return "added"
	case OpRemoved:
		return "removed"
	default:
		return "unchanged"
	}
}

// Change describes the outcome of a successful mutation.
type Change struct {
	Entry string
	Op    Op
}

// Changed reports whether the file was rewritten.
func (c Change) Changed() bool { return c.Op != OpNone }

// Synchronizer applies idempotent add/remove operations to one manifest file.
// Calls through the same Synchronizer are serialized; writers outside the
// process are not detected (last writer wins).
type Synchronizer struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger used to report failed operations.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synchronizer) { s.logger = l }
}

// NewSynchronizer returns a Synchronizer for the manifest at path.
func NewSynchronizer(path string, opts ...Option) *Synchronizer {
	s := &Synchronizer{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "manifest"), zap.String("path", path))
	return s
}

// Path returns the manifest path.
func (s *Synchronizer) Path() string { return s.path }

// AddEntry registers "./wheels/<filename>" unless it is already present.
func (s *Synchronizer) AddEntry(filename string) (Change, error) {
	entry := EntryFor(filename)
	return s.apply(entry, "add", func(d *Document) Op {
		if d.Add(entry) {
			return OpAdded
		}
		return OpNone
	})
}

// RemoveEntry unregisters "./wheels/<filename>" if present.
func (s *Synchronizer) RemoveEntry(filename string) (Change, error) {
	entry := EntryFor(filename)
	return s.apply(entry, "remove", func(d *Document) Op {
		if d.Remove(entry) {
			return OpRemoved
		}
		return OpNone
	})
}

// RemoveRaw unregisters entries verbatim, including entries that do not use
// the canonical prefix. It returns how many distinct entries were dropped.
func (s *Synchronizer) RemoveRaw(entries ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := Load(s.path)
	if err != nil {
		s.logger.Error("manifest prune aborted", zap.Error(err))
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if doc.Remove(e) {
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if err := doc.Save(s.path); err != nil {
		s.logger.Error("manifest prune aborted", zap.Error(err))
		return 0, err
	}
	s.logger.Info("manifest pruned", zap.Int("removed", n))
	return n, nil
}

// Entries returns the current wheels list.
func (s *Synchronizer) Entries() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	return doc.Wheels(), nil
}

func (s *Synchronizer) apply(entry, verb string, mutate func(*Document) Op) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With(zap.String("entry", entry))

	doc, err := Load(s.path)
	if err != nil {
		log.Error("manifest "+verb+" aborted", zap.Error(err))
		return Change{Entry: entry}, err
	}

	op := mutate(doc)
	if op == OpNone {
		log.Debug("manifest " + verb + " was a no-op")
		return Change{Entry: entry, Op: OpNone}, nil
	}

	if err := doc.Save(s.path); err != nil {
		log.Error("manifest "+verb+" aborted", zap.Error(err))
		return Change{Entry: entry}, err
	}
	log.Info("manifest updated", zap.Stringer("op", op))
	return Change{Entry: entry, Op: op}, nil
}
