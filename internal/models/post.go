package models

import "time"

// Post categories.
const (
	PostCategoryGeneral = "general"
	PostCategoryNews    = "news"
	PostCategoryEvents  = "events"
	PostCategoryPhotos  = "photos"
)

// Post is a feed entry. Likes is the set of user ids that liked the post,
// serialized as an array.
type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url,omitempty"`
	Category   string    `json:"category"`
	Likes      []string  `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment belongs to a post's thread.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
