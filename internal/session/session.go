// Package session manages connections to network devices.
//
// A Session binds one live transport connection to one inventory device and
// moves through Disconnected -> Connecting -> Ready -> (InUse <-> Ready) ->
// Closed. The Manager owns every session; at most one command is in flight
// per session, and a session that times out mid-command is closed rather than
// returned to the pool.
package session

import (
	"context"
	"sync"

	"netlens/internal/domain"
)

// State is the lifecycle state of a session.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateReady        State = "ready"
	StateInUse        State = "in_use"
	StateClosed       State = "closed"
)

// Conn is the transport behind a session. The production implementation is
// an SSH client; tests substitute a fake.
type Conn interface {
	// Run executes one command and blocks until the device signals completion
	// or ctx is done.
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// Session is one connection to one device.
type Session struct {
	ID     string
	Device *domain.Device

	mu    sync.Mutex
	state State
	conn  Conn
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// compareAndSetState transitions from "from" to "to" atomically, reporting
// whether the transition happened.
func (s *Session) compareAndSetState(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

// attach installs the transport after a successful dial.
func (s *Session) attach(conn Conn) {
	s.mu.Lock()
	s.conn = conn
	s.state = StateInUse
	s.mu.Unlock()
}

// run executes a command on the underlying transport.
func (s *Session) run(ctx context.Context, command string) (string, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	return conn.Run(ctx, command)
}

// close tears down the transport and marks the session Closed.
func (s *Session) close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.state = StateClosed
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
