package models

import "time"

// Event categories.
const (
	EventCategoryGeneral     = "general"
	EventCategoryRehearsal   = "rehearsal"
	EventCategoryPerformance = "performance"
	EventCategoryMeeting     = "meeting"
	EventCategorySocial      = "social"
)

// Event is a calendar entry.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Category      string    `json:"category"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// AttendanceStatus is the tri-state RSVP for an event.
type AttendanceStatus string

const (
	StatusAttending    AttendanceStatus = "attending"
	StatusMaybe        AttendanceStatus = "maybe"
	StatusNotAttending AttendanceStatus = "not_attending"
)

// ValidAttendanceStatus reports whether s is one of the three RSVP states.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case StatusAttending, StatusMaybe, StatusNotAttending:
		return true
	}
	return false
}

// Attendance is one user's RSVP for one event. The server keeps at most one
// per (event, user) pair.
type Attendance struct {
	ID        string           `json:"id"`
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	UserName  string           `json:"user_name"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
