package feed

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

type likeResponse struct {
	Likes int `json:"likes"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// Threads tracks per-post interaction state: the like toggle and the lazily
// loaded comment thread with its displayed count.
//
// Counts are adjusted with local arithmetic on add/delete rather than
// re-fetched, so they can drift if another session edits the same thread
// concurrently; the next full load reconciles them. Likes and attendance take
// the server-confirmed value instead.
type Threads struct {
	api     *rest.Client
	session *session.Manager
	logger  *zap.Logger

	mu      sync.RWMutex
	counts  map[string]int              // postID -> displayed comment count
	threads map[string][]models.Comment // postID -> loaded thread; presence means cached
	likes   map[string]int              // postID -> like count
	liked   map[string]bool             // postID -> session user in like set
}

// NewThreads creates the interaction tracker. A nil logger becomes a nop.
func NewThreads(api *rest.Client, sess *session.Manager, logger *zap.Logger) *Threads {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Threads{
		api:     api,
		session: sess,
		logger:  logger,
		counts:  make(map[string]int),
		threads: make(map[string][]models.Comment),
		likes:   make(map[string]int),
		liked:   make(map[string]bool),
	}
}

// Seed initializes like state from fetched posts: the count is the size of
// the like set and "liked" is the session user's membership in it.
func (t *Threads) Seed(posts []models.Post) {
	userID := t.session.UserID()
	t.mu.Lock()
	for _, p := range posts {
		t.likes[p.ID] = len(p.Likes)
		t.liked[p.ID] = p.LikedBy(userID)
	}
	t.mu.Unlock()
}

// PreloadCounts fetches each visible post's thread once so a count can be
// shown before the thread is expanded. Individual failures are logged and
// skipped, matching the one-request-per-post behavior of the views.
func (t *Threads) PreloadCounts(ctx context.Context, posts []models.Post) {
	for _, p := range posts {
		var thread []models.Comment
		if err := t.api.Get(ctx, "/posts/"+p.ID+"/comments", &thread); err != nil {
			t.logger.Warn("preload comment count", zap.String("post_id", p.ID), zap.Error(err))
			continue
		}
		t.mu.Lock()
		t.counts[p.ID] = len(thread)
		t.mu.Unlock()
	}
}

// Count returns the displayed comment count for a post.
func (t *Threads) Count(postID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[postID]
}

// Likes returns the displayed like count for a post.
func (t *Threads) Likes(postID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.likes[postID]
}

// Liked reports whether the session user has liked the post.
func (t *Threads) Liked(postID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.liked[postID]
}

// ToggleLike flips the session user's membership in the post's like set. The
// count always comes from the server response; the boolean flips in lockstep.
func (t *Threads) ToggleLike(ctx context.Context, postID string) (likes int, liked bool, err error) {
	var resp likeResponse
	if err := t.api.Post(ctx, "/posts/"+postID+"/like", nil, &resp); err != nil {
		return 0, false, err
	}
	t.mu.Lock()
	t.likes[postID] = resp.Likes
	t.liked[postID] = !t.liked[postID]
	likes, liked = resp.Likes, t.liked[postID]
	t.mu.Unlock()
	return likes, liked, nil
}

// Comments returns the post's thread, fetching it on first expansion only.
// Toggling visibility after that is a cache hit and issues no request.
func (t *Threads) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	t.mu.RLock()
	cached, ok := t.threads[postID]
	t.mu.RUnlock()
	if ok {
		return copyThread(cached), nil
	}

	var thread []models.Comment
	if err := t.api.Get(ctx, "/posts/"+postID+"/comments", &thread); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.threads[postID] = thread
	t.counts[postID] = len(thread)
	t.mu.Unlock()
	return copyThread(thread), nil
}

// AddComment posts a comment, appends the returned record to the cached
// thread and bumps the displayed count.
func (t *Threads) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBlankContent
	}
	var created models.Comment
	if err := t.api.Post(ctx, "/posts/"+postID+"/comments", createCommentRequest{Content: content}, &created); err != nil {
		return nil, err
	}
	t.mu.Lock()
	if thread, ok := t.threads[postID]; ok {
		t.threads[postID] = append(thread, created)
	}
	t.counts[postID]++
	t.mu.Unlock()
	return &created, nil
}

// DeleteComment removes a comment server-side, then from the cached thread,
// and decrements the displayed count.
func (t *Threads) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := t.api.Delete(ctx, "/comments/"+commentID, nil); err != nil {
		return err
	}
	t.mu.Lock()
	if thread, ok := t.threads[postID]; ok {
		for i, c := range thread {
			if c.ID == commentID {
				t.threads[postID] = append(thread[:i], thread[i+1:]...)
				break
			}
		}
	}
	if t.counts[postID] > 0 {
		t.counts[postID]--
	}
	t.mu.Unlock()
	return nil
}

// Forget drops all cached state for a post, e.g. after the post is deleted.
func (t *Threads) Forget(postID string) {
	t.mu.Lock()
	delete(t.counts, postID)
	delete(t.threads, postID)
	delete(t.likes, postID)
	delete(t.liked, postID)
	t.mu.Unlock()
}

func copyThread(thread []models.Comment) []models.Comment {
	out := make([]models.Comment, len(thread))
	copy(out, thread)
	return out
}
