package server

import (
	"errors"
	"sort"
	"sync"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

// ErrEmailTaken is returned when registering an existing email.
var ErrEmailTaken = errors.New("email already registered")

type userRecord struct {
	models.User
	passwordHash string
}

// Store is the in-memory document store backing the dev server. It mirrors
// the production database's collections; everything is guarded by one lock
// since contention is irrelevant here.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*userRecord
	posts         map[string]*models.Post
	comments      map[string]*models.Comment
	announcements map[string]*models.Announcement
	events        map[string]*models.Event
	attendances   map[string]*models.Attendance
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*userRecord),
		posts:         make(map[string]*models.Post),
		comments:      make(map[string]*models.Comment),
		announcements: make(map[string]*models.Announcement),
		events:        make(map[string]*models.Event),
		attendances:   make(map[string]*models.Attendance),
	}
}

// --- users ---

func (s *Store) CreateUser(u models.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = &userRecord{User: u, passwordHash: passwordHash}
	return nil
}

func (s *Store) UserByEmail(email string) (models.User, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if rec.Email == email {
			return rec.User, rec.passwordHash, true
		}
	}
	return models.User{}, "", false
}

func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return rec.User, true
}

// UpdateUser applies fn to the user under the lock and returns the result.
func (s *Store) UpdateUser(id string, fn func(*models.User)) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	fn(&rec.User)
	return rec.User, true
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// DeleteUser removes the user and cascades to their posts, comments and
// attendances, like the production server does.
func (s *Store) DeleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	for pid, p := range s.posts {
		if p.UserID == id {
			delete(s.posts, pid)
		}
	}
	for cid, c := range s.comments {
		if c.UserID == id {
			delete(s.comments, cid)
		}
	}
	for aid, a := range s.attendances {
		if a.UserID == id {
			delete(s.attendances, aid)
		}
	}
	return true
}

// --- posts ---

func (s *Store) CreatePost(p models.Post) {
	s.mu.Lock()
	s.posts[p.ID] = &p
	s.mu.Unlock()
}

func (s *Store) PostByID(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return *p, true
}

// Posts returns posts newest first, filtered by category unless it is empty
// or "all".
func (s *Store) Posts(category string) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ToggleLike flips userID's membership in the post's like set and returns the
// new count.
func (s *Store) ToggleLike(postID, userID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return 0, false
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return len(p.Likes), true
		}
	}
	p.Likes = append(p.Likes, userID)
	return len(p.Likes), true
}

// DeletePost removes a post and its comments.
func (s *Store) DeletePost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return false
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return true
}

// --- comments ---

func (s *Store) CreateComment(c models.Comment) {
	s.mu.Lock()
	s.comments[c.ID] = &c
	s.mu.Unlock()
}

func (s *Store) CommentByID(id string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, false
	}
	return *c, true
}

// Comments returns a post's thread oldest first.
func (s *Store) Comments(postID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) DeleteComment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return false
	}
	delete(s.comments, id)
	return true
}

// --- announcements ---

func (s *Store) CreateAnnouncement(a models.Announcement) {
	s.mu.Lock()
	s.announcements[a.ID] = &a
	s.mu.Unlock()
}

// Announcements returns the board newest first.
func (s *Store) Announcements() []models.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) DeleteAnnouncement(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.announcements[id]; !ok {
		return false
	}
	delete(s.announcements, id)
	return true
}

// --- events ---

func (s *Store) CreateEvent(e models.Event) {
	s.mu.Lock()
	s.events[e.ID] = &e
	s.mu.Unlock()
}

// Events returns the calendar ascending by start date.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// DeleteEvent removes an event and its attendances.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false
	}
	delete(s.events, id)
	for aid, a := range s.attendances {
		if a.EventID == id {
			delete(s.attendances, aid)
		}
	}
	return true
}

// --- attendances ---

// Attendances returns an event's roster, oldest RSVP first.
func (s *Store) Attendances(eventID string) []models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Attendance, 0)
	for _, a := range s.attendances {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// UpsertAttendance records or updates the (event, user) RSVP, keeping at most
// one entry per pair. fresh must carry a new id; it is used only when no
// existing entry is found.
func (s *Store) UpsertAttendance(fresh models.Attendance) models.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendances {
		if a.EventID == fresh.EventID && a.UserID == fresh.UserID {
			a.Status = fresh.Status
			return *a
		}
	}
	s.attendances[fresh.ID] = &fresh
	return fresh
}

// Counts returns the aggregate totals for the admin dashboard.
func (s *Store) Counts() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Stats{
		TotalUsers:         len(s.users),
		TotalPosts:         len(s.posts),
		TotalEvents:        len(s.events),
		TotalAnnouncements: len(s.announcements),
	}
}
