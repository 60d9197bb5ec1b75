// Package auth resolves the anonymous learner session carried in a cookie.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/mind-engage/certprep/internal/attempt"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (attempt.Session, bool, error)
}

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Sessions issues and refreshes the session cookie. A session is only created
// when a handler asks for one with Ensure, which handlers call once the request
// has proven worth keeping.
type Sessions struct {
	resolver SessionResolver
	cookie   CookieConfig
	now      func() time.Time
}

func NewSessions(r SessionResolver, c CookieConfig) *Sessions {
	if c.Name == "" {
		c.Name = "certprep_session"
	}
	if c.TTL <= 0 {
		c.TTL = 7 * 24 * time.Hour
	}
	return &Sessions{resolver: r, cookie: c, now: time.Now}
}

// Token is the raw cookie value, or "" when absent.
func (s *Sessions) Token(r *http.Request) string {
	if c, err := r.Cookie(s.cookie.Name); err == nil {
		return c.Value
	}
	return ""
}

// Ensure resolves the caller's session, creating one when the cookie is
// missing or unknown, and (re)sets the cookie so its expiry slides.
func (s *Sessions) Ensure(w http.ResponseWriter, r *http.Request) (attempt.Session, error) {
	sess, _, err := s.resolver.ResolveSession(r.Context(), s.Token(r))
	if err != nil {
		return attempt.Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.now().Add(s.cookie.TTL),
		MaxAge:   int(s.cookie.TTL / time.Second),
	})
	return sess, nil
}
