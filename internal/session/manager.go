package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"netlens/internal/domain"

	"github.com/google/uuid"
)

// Dialer establishes a transport connection to a device.
type Dialer interface {
	Dial(ctx context.Context, device *domain.Device, timeout time.Duration) (Conn, error)
}

// Recorder receives a copy of every command outcome for auditing.
// Recording failures are logged, never propagated to the caller.
type Recorder interface {
	Record(ctx context.Context, result *domain.RawCommandResult) error
}

// Config holds manager timeouts.
type Config struct {
	// ConnectTimeout bounds dialing and authentication.
	ConnectTimeout time.Duration
	// CommandTimeout is used when Execute is passed a zero timeout.
	CommandTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 30 * time.Second,
	}
}

// Manager owns every session. Sessions are pooled per device and reused when
// Ready; a device whose sessions are all InUse gets a fresh connection rather
// than blocking behind the in-flight command.
type Manager struct {
	dialer   Dialer
	cfg      Config
	recorder Recorder

	mu       sync.Mutex
	sessions map[string][]*Session
	closed   bool
}

// NewManager creates a session manager over the given dialer.
func NewManager(dialer Dialer, cfg Config) *Manager {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConfig().ConnectTimeout
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = DefaultConfig().CommandTimeout
	}
	return &Manager{
		dialer:   dialer,
		cfg:      cfg,
		sessions: make(map[string][]*Session),
	}
}

// SetRecorder installs the audit recorder.
func (m *Manager) SetRecorder(r Recorder) {
	m.mu.Lock()
	m.recorder = r
	m.mu.Unlock()
}

// Acquire returns a session for the device in the InUse state: an existing
// Ready session when one is available, otherwise a fresh connection.
func (m *Manager) Acquire(ctx context.Context, device *domain.Device) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, domain.NewOpError(domain.FailureTransportError, device.Name, "acquire",
			fmt.Errorf("session manager is closed"))
	}
	for _, s := range m.sessions[device.Name] {
		if s.compareAndSetState(StateReady, StateInUse) {
			m.mu.Unlock()
			return s, nil
		}
	}

	s := &Session{
		ID:     uuid.NewString(),
		Device: device,
		state:  StateConnecting,
	}
	m.sessions[device.Name] = append(m.sessions[device.Name], s)
	m.mu.Unlock()

	// Dial without holding the pool lock so other devices proceed.
	conn, err := m.dialer.Dial(ctx, device, m.cfg.ConnectTimeout)
	if err != nil {
		m.remove(s)
		s.close()
		return nil, classifyDialError(device.Name, err)
	}

	s.attach(conn)
	return s, nil
}

// Execute sends one command on an acquired session and blocks until the
// device signals completion or timeout elapses. On timeout or transport error
// the session is closed; a connection is not trusted after an aborted command.
func (m *Manager) Execute(ctx context.Context, s *Session, command string, timeout time.Duration) (*domain.RawCommandResult, error) {
	if s.State() != StateInUse {
		return nil, domain.NewOpError(domain.FailureTransportError, s.Device.Name, "execute",
			fmt.Errorf("session %s is %s, not acquired", s.ID, s.State()))
	}
	if timeout == 0 {
		timeout = m.cfg.CommandTimeout
	}

	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := s.run(cctx, command)

	result := &domain.RawCommandResult{
		Device:    s.Device.Name,
		Command:   command,
		Output:    output,
		Duration:  time.Since(start),
		Timestamp: start,
	}

	if err != nil {
		m.Discard(s)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			result.Status = domain.CommandStatusTimeout
			m.record(result)
			return nil, domain.NewOpError(domain.FailureCommandTimeout, s.Device.Name, "execute",
				fmt.Errorf("%q exceeded %s", command, timeout))
		}
		result.Status = domain.CommandStatusError
		m.record(result)
		return nil, domain.NewOpError(domain.FailureTransportError, s.Device.Name, "execute", err)
	}

	result.Status = domain.CommandStatusOK
	m.record(result)
	return result, nil
}

// Release returns an acquired session to the pool for reuse. The underlying
// connection stays open.
func (m *Manager) Release(s *Session) {
	s.compareAndSetState(StateInUse, StateReady)
}

// Discard closes a session and removes it from the pool. Used after command
// failures and when a caller abandons an in-flight operation.
func (m *Manager) Discard(s *Session) {
	m.remove(s)
	if err := s.close(); err != nil {
		log.Printf("Session %s (%s): close error: %v", s.ID, s.Device.Name, err)
	}
}

// Run acquires a session, executes one command, and releases the session.
// On execution failure the session has already been discarded.
func (m *Manager) Run(ctx context.Context, device *domain.Device, command string, timeout time.Duration) (*domain.RawCommandResult, error) {
	s, err := m.Acquire(ctx, device)
	if err != nil {
		return nil, err
	}

	result, err := m.Execute(ctx, s, command, timeout)
	if err != nil {
		return nil, err
	}

	m.Release(s)
	return result, nil
}

// CloseAll tears down every session. Individual close failures are collected
// so one bad connection cannot keep others open. Called once at shutdown.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	m.closed = true
	var all []*Session
	for _, pool := range m.sessions {
		all = append(all, pool...)
	}
	m.sessions = make(map[string][]*Session)
	m.mu.Unlock()

	var errs []error
	for _, s := range all {
		if err := s.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s (%s): %w", s.ID, s.Device.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool := m.sessions[s.Device.Name]
	for i, have := range pool {
		if have == s {
			m.sessions[s.Device.Name] = append(pool[:i:i], pool[i+1:]...)
			return
		}
	}
}

func (m *Manager) record(result *domain.RawCommandResult) {
	m.mu.Lock()
	recorder := m.recorder
	m.mu.Unlock()
	if recorder == nil {
		return
	}
	// Recording must survive caller cancellation.
	if err := recorder.Record(context.Background(), result); err != nil {
		log.Printf("Audit record failed for %s %q: %v", result.Device, result.Command, err)
	}
}

// classifyDialError maps transport errors onto the failure taxonomy.
func classifyDialError(device string, err error) error {
	kind := domain.FailureTransportError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.FailureConnectTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.FailureConnectTimeout
	case strings.Contains(err.Error(), "unable to authenticate"),
		strings.Contains(err.Error(), "permission denied"):
		kind = domain.FailureAuthFailure
	}
	return domain.NewOpError(kind, device, "acquire", err)
}
