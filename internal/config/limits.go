package config

import "time"

const (
	// MaxClientNameLength is the maximum length for client names.
	MaxClientNameLength = 255

	// MaxProjectNameLength is the maximum length for project names.
	MaxProjectNameLength = 255

	// MaxScreenNameLength is the maximum length for screen names.
	MaxScreenNameLength = 255

	// MaxLabelLength is the maximum length for per-device screen captions.
	MaxLabelLength = 255

	// MaxCommentLength bounds comment and reply content.
	MaxCommentLength = 5000

	// MaxDisplayNameLength bounds self-asserted reviewer names.
	MaxDisplayNameLength = 100

	// MaxImageUploadBytes caps a single mockup upload.
	MaxImageUploadBytes = 25 << 20

	// TokenBytes is the entropy of generated client and project tokens.
	TokenBytes = 24

	// PendingActionTTL is how long a parked action waits for a name.
	PendingActionTTL = 15 * time.Minute

	// ExportFetchConcurrency bounds parallel blob downloads during export.
	ExportFetchConcurrency = 4
)
