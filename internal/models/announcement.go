package models

import "time"

// Announcement categories.
const (
	AnnouncementCategoryGeneral = "general"
	AnnouncementCategoryUrgent  = "urgent"
	AnnouncementCategoryEvent   = "event"
	AnnouncementCategoryInfo    = "info"
)

// Announcement is a board notice, creatable by admins only.
type Announcement struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}
