// Package announcements syncs the notice board. Creation and deletion are
// admin-only; the client hides the controls but the server is the enforcement
// point, so authorization failures surface the server's detail message.
package announcements

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

// ErrMissingFields is returned before any request when title or content is
// blank.
var ErrMissingFields = errors.New("title and content are required")

type createRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Synchronizer owns the ordered announcement list, newest first.
type Synchronizer struct {
	api    *rest.Client
	logger *zap.Logger

	mu    sync.RWMutex
	items []models.Announcement
}

// New creates an announcement synchronizer. A nil logger becomes a nop.
func New(api *rest.Client, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{api: api, logger: logger}
}

// Refresh replaces the list wholesale.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	var list []models.Announcement
	if err := s.api.Get(ctx, "/announcements", &list); err != nil {
		return err
	}
	s.logger.Debug("announcements refreshed", zap.Int("items", len(list)))
	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current list.
func (s *Synchronizer) Items() []models.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Announcement, len(s.items))
	copy(out, s.items)
	return out
}

// Create posts a new announcement and prepends the returned record.
func (s *Synchronizer) Create(ctx context.Context, title, content, category string) (*models.Announcement, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrMissingFields
	}
	if category == "" {
		category = models.AnnouncementCategoryGeneral
	}
	var created models.Announcement
	if err := s.api.Post(ctx, "/announcements", createRequest{Title: title, Content: content, Category: category}, &created); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = append([]models.Announcement{created}, s.items...)
	s.mu.Unlock()
	return &created, nil
}

// Delete removes an announcement server-side, then locally by id.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/announcements/"+id, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}
