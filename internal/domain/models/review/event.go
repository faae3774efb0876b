package review

import "time"

// EventType names a reviewer activity worth telling the operator about.
type EventType string

const (
	EventCommentCreated  EventType = "comment.created"
	EventCommentResolved EventType = "comment.resolved"
	EventCommentReopened EventType = "comment.reopened"
	EventCommentDeleted  EventType = "comment.deleted"
	EventVoteAdded       EventType = "vote.added"
	EventVoteRemoved     EventType = "vote.removed"
)

// Event is published after a reviewer mutation has been stored.
type Event struct {
	Type       EventType `json:"type"`
	ScreenID   string    `json:"screen_id"`
	CommentID  string    `json:"comment_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
