// Package session holds the authenticated user and bearer credential. It is
// the single identity source every other synchronizer reads from; views
// subscribe to it instead of reloading wholesale after a profile change.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

// ErrNotAuthenticated is returned by operations requiring a logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Manager resolves, holds and tears down the current session.
type Manager struct {
	api    *rest.Client
	store  TokenStore
	logger *zap.Logger

	mu   sync.RWMutex
	user *models.User
	subs []func(*models.User)
}

// NewManager creates a session manager. A nil logger is replaced with a nop.
func NewManager(api *rest.Client, store TokenStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{api: api, store: store, logger: logger}
}

// Resolve restores the session from a stored credential at startup. A
// rejected credential (401) is cleared silently and (nil, nil) is returned;
// any other failure, server errors included, is propagated without touching
// the stored token so a later retry can still succeed.
func (m *Manager) Resolve(ctx context.Context) (*models.User, error) {
	token, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	m.api.SetToken(token)
	var user models.User
	if err := m.api.Get(ctx, "/auth/me", &user); err != nil {
		if rest.IsUnauthorized(err) {
			m.logger.Info("stored credential rejected, logging out")
			m.Logout()
			return nil, nil
		}
		m.api.ClearToken()
		return nil, err
	}

	m.setUser(&user)
	return m.CurrentUser(), nil
}

// Login exchanges credentials for a token and populates the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	return m.authenticate(ctx, "/auth/login", credentials{Email: email, Password: password})
}

// Register creates an account and populates the session.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return m.authenticate(ctx, "/auth/register", credentials{Email: email, Password: password, Name: name})
}

func (m *Manager) authenticate(ctx context.Context, path string, creds credentials) (*models.User, error) {
	var resp tokenResponse
	if err := m.api.Post(ctx, path, creds, &resp); err != nil {
		return nil, err
	}
	if err := m.store.Save(resp.AccessToken); err != nil {
		m.logger.Warn("persist credential", zap.Error(err))
	}
	m.api.SetToken(resp.AccessToken)
	m.setUser(&resp.User)
	return m.CurrentUser(), nil
}

// Logout clears the stored credential and session state. No server call.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clear credential", zap.Error(err))
	}
	m.api.ClearToken()
	m.setUser(nil)
}

// CurrentUser returns a copy of the session user, nil when unauthenticated.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// UserID returns the session user's id, empty when unauthenticated.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ""
	}
	return m.user.ID
}

// IsAdmin reports whether the session user holds the admin role.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.IsAdmin()
}

// Subscribe registers fn to run whenever the identity changes (login, logout,
// profile save). fn receives a copy, nil on logout.
func (m *Manager) Subscribe(fn func(*models.User)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Adopt replaces the session user with a server-returned record and notifies
// subscribers. Used after profile updates.
func (m *Manager) Adopt(user models.User) {
	m.setUser(&user)
}

func (m *Manager) setUser(user *models.User) {
	m.mu.Lock()
	m.user = user
	subs := make([]func(*models.User), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(m.CurrentUser())
	}
}
