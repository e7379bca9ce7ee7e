// Package events keeps the calendar and per-event attendance rosters in sync
// with the server. Attendance is deliberately authoritative: every RSVP write
// re-fetches the roster instead of patching it locally.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

var (
	// ErrNoSelection is returned by roster operations when no event is open.
	ErrNoSelection = errors.New("no event selected")
	// ErrInvalidStatus is returned for an RSVP outside the three states.
	ErrInvalidStatus = errors.New("invalid attendance status")
	// ErrMissingFields is returned when an event draft lacks required fields.
	ErrMissingFields = errors.New("title, location and dates are required")
)

// Draft holds the fields for a new event.
type Draft struct {
	Title       string
	Description string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	Category    string
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
}

type attendRequest struct {
	Status models.AttendanceStatus `json:"status"`
}

// Synchronizer owns the events list, the selected event and its roster.
type Synchronizer struct {
	api    *rest.Client
	logger *zap.Logger

	mu         sync.RWMutex
	events     []models.Event
	selectedID string
	roster     []models.Attendance
}

// New creates an event synchronizer. A nil logger is replaced with a nop.
func New(api *rest.Client, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{api: api, logger: logger}
}

// Refresh replaces the events list wholesale. The server returns events
// sorted ascending by start date.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	var list []models.Event
	if err := s.api.Get(ctx, "/events", &list); err != nil {
		return err
	}
	s.logger.Debug("events refreshed", zap.Int("events", len(list)))
	s.mu.Lock()
	s.events = list
	s.mu.Unlock()
	return nil
}

// Events returns a copy of the current list.
func (s *Synchronizer) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Select opens an event and fetches its attendance roster.
func (s *Synchronizer) Select(ctx context.Context, eventID string) error {
	roster, err := s.fetchRoster(ctx, eventID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.selectedID = eventID
	s.roster = roster
	s.mu.Unlock()
	return nil
}

// Selected returns the open event, if any.
func (s *Synchronizer) Selected() (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == s.selectedID {
			return ev, true
		}
	}
	return models.Event{}, false
}

// ClearSelection closes the open event and drops its roster.
func (s *Synchronizer) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.roster = nil
	s.mu.Unlock()
}

// Roster returns a copy of the open event's attendance list.
func (s *Synchronizer) Roster() []models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Attendance, len(s.roster))
	copy(out, s.roster)
	return out
}

// SetStatus posts the session user's RSVP for the open event, then re-fetches
// the roster so the displayed status and count come from a fresh server read.
func (s *Synchronizer) SetStatus(ctx context.Context, status models.AttendanceStatus) error {
	if !models.ValidAttendanceStatus(status) {
		return ErrInvalidStatus
	}
	s.mu.RLock()
	eventID := s.selectedID
	s.mu.RUnlock()
	if eventID == "" {
		return ErrNoSelection
	}

	if err := s.api.Post(ctx, "/events/"+eventID+"/attend", attendRequest{Status: status}, nil); err != nil {
		return err
	}

	roster, err := s.fetchRoster(ctx, eventID)
	if err != nil {
		return fmt.Errorf("refresh roster: %w", err)
	}
	s.mu.Lock()
	if s.selectedID == eventID {
		s.roster = roster
	}
	s.mu.Unlock()
	return nil
}

// Status returns the RSVP of the given user for the open event.
func (s *Synchronizer) Status(userID string) (models.AttendanceStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.roster {
		if a.UserID == userID {
			return a.Status, true
		}
	}
	return "", false
}

// AttendingCount returns how many roster entries are "attending".
func (s *Synchronizer) AttendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.roster {
		if a.Status == models.StatusAttending {
			n++
		}
	}
	return n
}

// Create posts a new event and splices the returned record into the list,
// keeping the ascending start-date ordering the server serves.
func (s *Synchronizer) Create(ctx context.Context, draft Draft) (*models.Event, error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Location) == "" ||
		draft.StartDate.IsZero() || draft.EndDate.IsZero() {
		return nil, ErrMissingFields
	}
	category := draft.Category
	if category == "" {
		category = models.EventCategoryGeneral
	}
	req := createRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		StartDate:   draft.StartDate.UTC().Format(time.RFC3339),
		EndDate:     draft.EndDate.UTC().Format(time.RFC3339),
		Category:    category,
	}
	var created models.Event
	if err := s.api.Post(ctx, "/events", req, &created); err != nil {
		return nil, err
	}

	s.mu.Lock()
	inserted := false
	list := make([]models.Event, 0, len(s.events)+1)
	for _, ev := range s.events {
		if !inserted && created.StartDate.Before(ev.StartDate) {
			list = append(list, created)
			inserted = true
		}
		list = append(list, ev)
	}
	if !inserted {
		list = append(list, created)
	}
	s.events = list
	s.mu.Unlock()
	return &created, nil
}

// Delete removes the event server-side, then locally. A deleted open event
// clears the selection.
func (s *Synchronizer) Delete(ctx context.Context, eventID string) error {
	if err := s.api.Delete(ctx, "/events/"+eventID, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i, ev := range s.events {
		if ev.ID == eventID {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	if s.selectedID == eventID {
		s.selectedID = ""
		s.roster = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) fetchRoster(ctx context.Context, eventID string) ([]models.Attendance, error) {
	var roster []models.Attendance
	if err := s.api.Get(ctx, "/events/"+eventID+"/attendances", &roster); err != nil {
		return nil, err
	}
	return roster, nil
}
