// Package feed keeps the post list and the upcoming-events panel in sync with
// the server. Lists are always replaced wholesale from a server read; creates
// and deletes splice the confirmed record in or out.
package feed

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/events"
	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

// ErrBlankContent is returned before any request is issued when a post or
// comment body is empty or whitespace.
var ErrBlankContent = errors.New("content must not be blank")

// upcomingLimit caps the sidebar panel.
const upcomingLimit = 5

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category"`
}

// Synchronizer owns the ordered post list for the active category filter.
type Synchronizer struct {
	api    *rest.Client
	logger *zap.Logger

	mu       sync.RWMutex
	category string
	posts    []models.Post
}

// New creates a feed synchronizer. A nil logger is replaced with a nop.
func New(api *rest.Client, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{api: api, logger: logger}
}

// Refresh replaces the post list wholesale, honoring the active category.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.RLock()
	category := s.category
	s.mu.RUnlock()

	path := "/posts"
	if category != "" && category != "all" {
		path += "?category=" + url.QueryEscape(category)
	}
	var list []models.Post
	if err := s.api.Get(ctx, path, &list); err != nil {
		return err
	}
	s.logger.Debug("feed refreshed", zap.String("category", category), zap.Int("posts", len(list)))
	s.mu.Lock()
	s.posts = list
	s.mu.Unlock()
	return nil
}

// SetCategory switches the filter and refreshes. "" and "all" mean no filter.
func (s *Synchronizer) SetCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Category returns the active filter.
func (s *Synchronizer) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// Posts returns a copy of the current list, newest first.
func (s *Synchronizer) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// CreatePost validates content locally, posts it and prepends the returned
// record. Blank content never reaches the network.
func (s *Synchronizer) CreatePost(ctx context.Context, content, imageURL, category string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBlankContent
	}
	if category == "" {
		category = models.PostCategoryGeneral
	}
	var created models.Post
	req := createPostRequest{Content: content, ImageURL: imageURL, Category: category}
	if err := s.api.Post(ctx, "/posts", req, &created); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.posts = append([]models.Post{created}, s.posts...)
	s.mu.Unlock()
	return &created, nil
}

// DeletePost removes the post server-side first, then drops exactly the
// matching entry from the local list.
func (s *Synchronizer) DeletePost(ctx context.Context, postID string) error {
	if err := s.api.Delete(ctx, "/posts/"+postID, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i, p := range s.posts {
		if p.ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// UpcomingEvents fetches the full events list and derives the sidebar panel:
// events ending after now, ascending by start, at most five.
func (s *Synchronizer) UpcomingEvents(ctx context.Context, now time.Time) ([]models.Event, error) {
	var list []models.Event
	if err := s.api.Get(ctx, "/events", &list); err != nil {
		return nil, err
	}
	return events.Upcoming(list, now, upcomingLimit), nil
}
