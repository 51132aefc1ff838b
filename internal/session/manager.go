package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"temo/internal/domain"
)

// ErrInvalidCredentials is returned when email/password do not match an active admin.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DefaultRecheckInterval is how often a live session re-confirms that its
// admin account is still active.
const DefaultRecheckInterval = time.Minute

type session struct {
	guard     *Guard
	lastSeen  time.Time
	checkedAt time.Time
}

// Manager maps opaque bearer tokens to logged-in guards. Sessions live in
// memory and expire after idleTTL without use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	store    CredentialStore
	idleTTL  time.Duration
	recheck  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewManager(store CredentialStore, idleTTL time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*session),
		store:    store,
		idleTTL:  idleTTL,
		recheck:  DefaultRecheckInterval,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates a fresh guard and issues a token for it.
func (m *Manager) Login(ctx context.Context, email, password string) (string, domain.AdminIdentity, error) {
	g := NewGuard(m.store, m.logger)
	if !g.Login(ctx, email, password) {
		return "", domain.AdminIdentity{}, ErrInvalidCredentials
	}
	token, err := randomToken()
	if err != nil {
		return "", domain.AdminIdentity{}, err
	}
	id, _ := g.Current()
	m.mu.Lock()
	now := m.now()
	m.sessions[token] = &session{guard: g, lastSeen: now, checkedAt: now}
	m.mu.Unlock()
	return token, id, nil
}

// Lookup returns the guard behind token while it is still authenticated.
// Every recheck interval the admin account is looked up again; a session
// whose account was deactivated or removed ends there.
func (m *Manager) Lookup(ctx context.Context, token string) (*Guard, bool) {
	s, due, ok := m.touch(token)
	if !ok {
		return nil, false
	}
	if due && !m.stillActive(ctx, s.guard) {
		m.Logout(token)
		return nil, false
	}
	return s.guard, true
}

func (m *Manager) touch(token string) (*session, bool, bool) {
	if token == "" {
		return nil, false, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, false, false
	}
	now := m.now()
	if m.idleTTL > 0 && now.Sub(s.lastSeen) > m.idleTTL {
		delete(m.sessions, token)
		return nil, false, false
	}
	if !s.guard.Authenticated() {
		delete(m.sessions, token)
		return nil, false, false
	}
	s.lastSeen = now
	due := m.recheck > 0 && now.Sub(s.checkedAt) >= m.recheck
	if due {
		s.checkedAt = now
	}
	return s, due, true
}

// stillActive keeps the session when the lookup itself fails; only a
// definite answer ends it.
func (m *Manager) stillActive(ctx context.Context, g *Guard) bool {
	id, ok := g.Current()
	if !ok {
		return false
	}
	user, err := m.store.GetActiveByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		m.logger.Warn("session: active recheck failed", zap.String("admin_id", id.ID), zap.Error(err))
		return true
	case user != nil && user.IsActive && user.ID == id.ID:
		return true
	}
	m.logger.Info("session: admin no longer active", zap.String("admin_id", id.ID))
	return false
}

// Logout ends the session behind token. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if ok {
		s.guard.Logout()
	}
}

// Sweep drops idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	dropped := 0
	for token, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idleTTL {
			delete(m.sessions, token)
			dropped++
		}
	}
	return dropped
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
