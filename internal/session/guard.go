package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"temo/internal/domain"
)

// CredentialStore looks up admin accounts by email.
type CredentialStore interface {
	GetActiveByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}

// Guard holds at most one authenticated admin identity.
type Guard struct {
	mu      sync.RWMutex
	store   CredentialStore
	logger  *zap.Logger
	current *domain.AdminIdentity
}

// NewGuard returns an unauthenticated guard.
func NewGuard(store CredentialStore, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{store: store, logger: logger}
}

// Login checks email and password against the credential store. It reports
// false for an unknown email, an inactive account, a wrong password, or a
// failed lookup, and leaves the guard untouched in every one of those cases.
func (g *Guard) Login(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return false
	}
	user, err := g.store.GetActiveByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			g.logger.Error("session: credential lookup failed", zap.String("email", email), zap.Error(err))
		}
		return false
	}
	if user == nil || !user.IsActive {
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false
	}

	id := user.Identity()
	g.mu.Lock()
	g.current = &id
	g.mu.Unlock()
	g.logger.Info("session: admin logged in", zap.String("admin_id", id.ID))
	return true
}

// Logout clears the stored identity.
func (g *Guard) Logout() {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
}

// Authenticated reports whether an identity is held.
func (g *Guard) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current != nil
}

// Current returns the held identity, if any.
func (g *Guard) Current() (domain.AdminIdentity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return domain.AdminIdentity{}, false
	}
	return *g.current, true
}
