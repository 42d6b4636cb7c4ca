package install

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wheelhouse-labs/wheelhouse/internal/acquire"
	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
)

// State is a coordinator state.
type State int

const (
	Idle State = iota
	Validating
	CheckingAvailability
	Downloading
	UpdatingManifest
	Reloading
	Failed
)

var stateNames = [...]string{
	Idle:                 "idle",
	Validating:           "validating",
	CheckingAvailability: "checking availability",
	Downloading:          "downloading",
	UpdatingManifest:     "updating manifest",
	Reloading:            "reloading",
	Failed:               "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Session is one install attempt. All accessors are safe for concurrent use.
type Session struct {
	ID        string
	Package   string
	StartedAt time.Time

	mu        sync.Mutex
	state     State
	history   []State
	artifacts []acquire.Artifact
	changes   []manifest.Change
	err       error
	done      chan struct{}
}

func newSession(name string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Package:   name,
		StartedAt: time.Now(),
		state:     Idle,
		history:   []State{Idle},
		done:      make(chan struct{}),
	}
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current state. After Done it is Idle on success and
// Failed otherwise.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns every state the session passed through, in order.
func (s *Session) History() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

// Err returns the failure, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Artifacts returns the wheels acquired by a successful session.
func (s *Session) Artifacts() []acquire.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]acquire.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Changes returns the manifest changes applied by the session.
func (s *Session) Changes() []manifest.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]manifest.Change, len(s.changes))
	copy(out, s.changes)
	return out
}

// Succeeded reports whether the session finished without error.
func (s *Session) Succeeded() bool {
	select {
	case <-s.done:
	default:
		return false
	}
	return s.Err() == nil
}

// Message returns the terminal status line, or the current state while the
// session is running.
func (s *Session) Message() string {
	select {
	case <-s.done:
	default:
		return "Installing " + s.Package + " (" + s.State().String() + ")"
	}
	if err := s.Err(); err != nil {
		return StatusMessage(err)
	}
	return "Installed " + s.Package + " successfully"
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = to
	s.history = append(s.history, to)
}

func (s *Session) setArtifacts(a []acquire.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = a
}

func (s *Session) addChange(c manifest.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, c)
}

func (s *Session) finish(state State, err error) {
	s.mu.Lock()
	s.state = state
	s.history = append(s.history, state)
	s.err = err
	s.mu.Unlock()
	close(s.done)
}
