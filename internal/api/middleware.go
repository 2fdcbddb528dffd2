package api

import (
	"context"
	"net/http"
	"strings"

	"dtmapi/internal/auth"
)

type ctxKey int

const sessionKey ctxKey = iota

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// withAuth rejects requests without a live bearer access token and stores
// the resolved session in the request context.
func (h *Handler) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.users.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

func sessionFrom(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionKey).(*auth.Session)
	return sess
}
