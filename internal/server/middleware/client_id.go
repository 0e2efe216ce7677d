// Package middleware provides HTTP middleware for the CV API.
package middleware

import (
	"context"
	"net/http"
	"regexp"
)

// ClientIDHeader carries the anonymous id a client generated for itself.
const ClientIDHeader = "X-Client-ID"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const clientIDKey ContextKey = "clientID"

var validClientID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ClientID places the X-Client-ID header value in the request context. Requests without the
// header pass through untouched; a malformed header is rejected with 400.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ClientIDHeader)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !validClientID.MatchString(id) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid X-Client-ID header"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
	})
}

// WithClientID returns a copy of ctx carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientIDFrom returns the anonymous client id stored by ClientID, if any.
func ClientIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}
