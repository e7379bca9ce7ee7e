// Package admin syncs the management panel: aggregate stats and the full user
// roster with role toggles and destructive deletes.
package admin

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

var (
	// ErrSelfAction is returned when the session user targets their own row.
	// The server re-enforces this; refusing locally mirrors the hidden
	// controls in the views.
	ErrSelfAction = errors.New("cannot modify your own account here")
	// ErrInvalidRole is returned for a role outside member/admin.
	ErrInvalidRole = errors.New("invalid role")
)

// Synchronizer owns the admin panel state. Stats and roster are independent
// fetches.
type Synchronizer struct {
	api     *rest.Client
	session *session.Manager
	logger  *zap.Logger

	mu    sync.RWMutex
	stats models.Stats
	users []models.User
}

// New creates an admin synchronizer. A nil logger becomes a nop.
func New(api *rest.Client, sess *session.Manager, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{api: api, session: sess, logger: logger}
}

// RefreshStats replaces the aggregate counts from the server.
func (s *Synchronizer) RefreshStats(ctx context.Context) error {
	var stats models.Stats
	if err := s.api.Get(ctx, "/admin/stats", &stats); err != nil {
		return err
	}
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return nil
}

// RefreshUsers replaces the roster wholesale.
func (s *Synchronizer) RefreshUsers(ctx context.Context) error {
	var users []models.User
	if err := s.api.Get(ctx, "/admin/users", &users); err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Stats returns the last-fetched aggregate counts.
func (s *Synchronizer) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Users returns a copy of the roster.
func (s *Synchronizer) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// SetRole updates one user's role and patches exactly that roster row in
// place. The role endpoint returns no record, so the patch uses the request
// arguments.
func (s *Synchronizer) SetRole(ctx context.Context, userID string, role models.Role) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}
	if userID == s.session.UserID() {
		return ErrSelfAction
	}
	path := "/admin/users/" + userID + "/role?role=" + url.QueryEscape(string(role))
	if err := s.api.Put(ctx, path, nil, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].Role = role
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteUser removes a user, drops the roster row locally and re-fetches the
// stats: the server-side cascade touches an unknown number of records, so
// counts are never patched incrementally.
func (s *Synchronizer) DeleteUser(ctx context.Context, userID string) error {
	if userID == s.session.UserID() {
		return ErrSelfAction
	}
	if err := s.api.Delete(ctx, "/admin/users/"+userID, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i, u := range s.users {
		if u.ID == userID {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := s.RefreshStats(ctx); err != nil {
		s.logger.Warn("refresh stats after user delete", zap.Error(err))
	}
	return nil
}
