package capture

import (
	"context"
	"sync"
	"time"
)

// SessionState is the capture session's position in its lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingPermission
	StateStreaming
	StateReadyWait
	StateCountdown
	StateCapturing
	StateUploading
	StateStopped
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPermission:
		return "awaiting_permission"
	case StateStreaming:
		return "streaming"
	case StateReadyWait:
		return "ready_wait"
	case StateCountdown:
		return "countdown"
	case StateCapturing:
		return "capturing"
	case StateUploading:
		return "uploading"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the session.
func (s SessionState) Terminal() bool {
	return s == StateStopped || s == StateFailed
}

// Session is one end-to-end capture attempt. The stream handle is owned
// exclusively by the session from acquisition until teardown.
type Session struct {
	mu        sync.Mutex
	state     SessionState
	stream    Stream
	startedAt time.Time
	err       error
	cancel    context.CancelFunc
}

func newSession(cancel context.CancelFunc) *Session {
	return &Session{
		state:     StateIdle,
		startedAt: time.Now(),
		cancel:    cancel,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error, nil for sessions that ended cleanly.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setStream(stream Stream) {
	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
}

// Cancel requests cooperative cancellation; the running flow notices at its
// next suspension boundary.
func (s *Session) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// releaseStream stops the stream if one was acquired. Safe to call on any
// exit path; Stream.Stop is idempotent.
func (s *Session) releaseStream() {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream != nil {
		stream.Stop()
	}
}
