package middleware

import (
	"context"
	"net/http"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/session"
)

type contextKey string

const (
	sessionKey contextKey = "session"
	issuedKey  contextKey = "session-issued"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "secscan_session"

// Session makes sure every request carries a session id, issuing a new
// cookie when the request has none or a malformed one.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id session.ID
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = session.ID(c.Value)
			}
			ctx := r.Context()
			if !id.Valid() {
				id = session.NewID()
				ctx = context.WithValue(ctx, issuedKey, true)
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    string(id),
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(ctx, id)))
		})
	}
}

func WithSessionID(ctx context.Context, id session.ID) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// SessionIssued reports whether the session id was minted for this request
// rather than presented by the client.
func SessionIssued(ctx context.Context) bool {
	issued, _ := ctx.Value(issuedKey).(bool)
	return issued
}

// SessionID returns the id stored by Session, or "".
func SessionID(ctx context.Context) session.ID {
	if id, ok := ctx.Value(sessionKey).(session.ID); ok {
		return id
	}
	return ""
}
