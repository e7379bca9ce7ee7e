// Package profile syncs a user profile view. The session user's own profile
// is editable through a staged draft; saving adopts the server-returned
// record into the shared session so every subscriber sees the change without
// a reload.
package profile

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

var (
	// ErrReadOnly is returned when editing someone else's profile.
	ErrReadOnly = errors.New("profile is read-only")
	// ErrNotEditing is returned by Save outside edit mode.
	ErrNotEditing = errors.New("not in edit mode")
)

// Draft stages profile edits separately from the displayed record.
type Draft struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func draftOf(u models.User) Draft {
	return Draft{
		Name:     u.Name,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		Position: u.Position,
		Phone:    u.Phone,
		Location: u.Location,
	}
}

// Synchronizer owns one profile view.
type Synchronizer struct {
	api     *rest.Client
	session *session.Manager
	logger  *zap.Logger

	mu      sync.RWMutex
	record  models.User
	draft   Draft
	own     bool
	editing bool
}

// New creates a profile synchronizer. A nil logger becomes a nop.
func New(api *rest.Client, sess *session.Manager, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{api: api, session: sess, logger: logger}
}

// LoadSelf seeds the view from the session user without a fetch.
func (s *Synchronizer) LoadSelf() error {
	user := s.session.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	s.mu.Lock()
	s.record = *user
	s.draft = draftOf(*user)
	s.own = true
	s.editing = false
	s.mu.Unlock()
	return nil
}

// Load fetches another user's profile by id, read-only.
func (s *Synchronizer) Load(ctx context.Context, userID string) error {
	var user models.User
	if err := s.api.Get(ctx, "/users/"+userID, &user); err != nil {
		return err
	}
	s.mu.Lock()
	s.record = user
	s.draft = draftOf(user)
	s.own = user.ID == s.session.UserID()
	s.editing = false
	s.mu.Unlock()
	return nil
}

// Record returns the displayed profile.
func (s *Synchronizer) Record() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Editable reports whether this view belongs to the session user.
func (s *Synchronizer) Editable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.own
}

// BeginEdit enters edit mode with a draft derived from the record.
func (s *Synchronizer) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.own {
		return ErrReadOnly
	}
	s.draft = draftOf(s.record)
	s.editing = true
	return nil
}

// Editing reports whether edit mode is active.
func (s *Synchronizer) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}

// Draft returns the staged edits.
func (s *Synchronizer) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the staged edits; the displayed record is untouched.
func (s *Synchronizer) SetDraft(d Draft) {
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}

// Cancel leaves edit mode and re-derives the draft from the last record.
func (s *Synchronizer) Cancel() {
	s.mu.Lock()
	s.draft = draftOf(s.record)
	s.editing = false
	s.mu.Unlock()
}

// Save submits the full draft. On success the returned record becomes the
// displayed one and is adopted into the session, so navigation chrome and any
// other subscriber update without a reload.
func (s *Synchronizer) Save(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	if !s.editing {
		s.mu.RUnlock()
		return nil, ErrNotEditing
	}
	draft := s.draft
	s.mu.RUnlock()

	var updated models.User
	if err := s.api.Put(ctx, "/users/profile", draft, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.record = updated
	s.draft = draftOf(updated)
	s.editing = false
	s.mu.Unlock()

	s.logger.Debug("profile saved", zap.String("user_id", updated.ID))
	s.session.Adopt(updated)
	return &updated, nil
}
