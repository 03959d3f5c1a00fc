package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderSession = "X-Session-Id"
	HeaderOrderID = "X-Order-Id"

	maxSessionLen = 64
)

type sessionKey struct{}

// Session resolves the browser session from X-Session-Id, issuing a new id when the header is
// missing or malformed. The id is echoed back so the client can keep it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderSession)
		if !validSession(id) {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderSession, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func validSession(id string) bool {
	if id == "" || len(id) > maxSessionLen {
		return false
	}
	for _, c := range id {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
