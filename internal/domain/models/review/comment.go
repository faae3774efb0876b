package review

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Comment is a positioned note on a screen. A comment with ParentID set is
// a reply and shares its parent's position and device.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	ScreenID   string    `json:"screen_id" db:"screen_id"`
	ParentID   *string   `json:"parent_id" db:"parent_id"`
	XPosition  float64   `json:"x_position" db:"x_position"`
	YPosition  float64   `json:"y_position" db:"y_position"`
	DeviceType Device    `json:"device_type" db:"device_type"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Content    string    `json:"content" db:"content"`
	IsResolved bool      `json:"is_resolved" db:"is_resolved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the comment starts a thread.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// ValidPosition reports whether v is a usable percentage coordinate.
func ValidPosition(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

// SortComments orders comments by creation time, then id.
func SortComments(comments []Comment) {
	slices.SortStableFunc(comments, func(a, b Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
