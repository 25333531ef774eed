package capture

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns the single live capture session. Starting a second session
// while one is live is rejected with ErrCaptureInProgress.
type Manager struct {
	cfg       Config
	processor Processor
	logger    *zap.Logger

	mu      sync.Mutex
	current *Session
}

func NewManager(cfg Config, processor Processor, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: cfg, processor: processor, logger: logger}
}

// Start opens a new session in the Listening state.
func (m *Manager) Start() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && !m.current.Finished() {
		return nil, ErrCaptureInProgress
	}
	s := newSession(uuid.NewString(), m.cfg, m.processor, m.logger)
	m.current = s
	m.logger.Info("Capture session started", zap.String("capture_session", s.ID()))
	return s, nil
}

// Get returns the most recent session when its id matches. A finished session
// stays readable until the next Start.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID() != id {
		return nil, ErrNoActiveSession
	}
	return m.current, nil
}

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.Finished() {
		return nil
	}
	return m.current
}
