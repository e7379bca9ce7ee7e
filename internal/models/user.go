package models

import "time"

// Role represents user role in the platform.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether r is one of the two platform roles.
func ValidRole(r Role) bool {
	return r == RoleMember || r == RoleAdmin
}

// User represents a platform member. The server owns every field; ids are
// assigned server-side and never minted by the client.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Position  string    `json:"position,omitempty"` // Presidente, Vocal, Músico, Voz, ...
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Stats holds the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalUsers         int `json:"total_users"`
	TotalPosts         int `json:"total_posts"`
	TotalEvents        int `json:"total_events"`
	TotalAnnouncements int `json:"total_announcements"`
}
