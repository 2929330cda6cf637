package api

import (
	"context"
	"net/http"

	"chat-relay/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// requireAuth validates the bearer credential of a plain request and injects
// the resolved identity into the request context. Same signing key, same
// expiry check as the WebSocket upgrade path; only the transport differs.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromHeader(r)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	}
}

// identityFrom extracts the authenticated identity stored by requireAuth.
func identityFrom(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}
