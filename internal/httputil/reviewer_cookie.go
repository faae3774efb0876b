package httputil

import (
	"context"
	"net/http"
	"net/url"
	"time"

	models "mockreview/internal/domain/models/review"
)

const (
	// ReviewerCookie holds the reviewer's display name
	ReviewerCookie = "mockreview_reviewer"

	reviewerCookieMaxAge = 365 * 24 * time.Hour
)

// CookieNameStore keeps the reviewer name in a long-lived cookie, the
// browser's durable slot. A saved name is visible to Load on the same
// request.
type CookieNameStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	saved  models.DisplayName
}

// NewCookieNameStore binds a store to one request/response pair
func NewCookieNameStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieNameStore {
	return &CookieNameStore{w: w, r: r, secure: secure}
}

// Load returns the stored name. Unreadable or blank cookies count as absent.
func (s *CookieNameStore) Load(context.Context) (models.DisplayName, bool, error) {
	if s.saved != "" {
		return s.saved, true, nil
	}
	c, err := s.r.Cookie(ReviewerCookie)
	if err != nil {
		return "", false, nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false, nil
	}
	name, err := models.NewDisplayName(raw)
	if err != nil {
		return "", false, nil
	}
	return name, true, nil
}

func (s *CookieNameStore) Save(_ context.Context, name models.DisplayName) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     ReviewerCookie,
		Value:    url.QueryEscape(string(name)),
		Path:     "/",
		MaxAge:   int(reviewerCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.saved = name
	return nil
}
