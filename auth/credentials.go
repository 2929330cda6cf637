package auth

import (
	"net/http"
	"strings"

	"chat-relay/errors"
)

// Identity is the authenticated username bound to a connection or request.
type Identity string

// IdentityFromHeader authenticates a plain HTTP request through the standard
// Authorization bearer header.
func IdentityFromHeader(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.ErrInvalidCredentials
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return identityFromToken(token)
}

// IdentityFromQuery authenticates a WebSocket upgrade request. The credential
// travels as a query parameter because not every client can attach custom
// headers to the upgrade handshake.
func IdentityFromQuery(r *http.Request) (Identity, error) {
	return identityFromToken(r.URL.Query().Get("token"))
}

// identityFromToken is the single trust decision for both transports.
func identityFromToken(token string) (Identity, error) {
	if token == "" {
		return "", errors.ErrInvalidCredentials
	}
	claims, err := ValidateToken(token)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}
	return Identity(claims.Username), nil
}
