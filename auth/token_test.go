package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
	req.Equal("chat-relay", claims.Issuer)
}

func TestToken_RejectsExpired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func TestToken_RejectsTampered(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", time.Hour)
	req.NoError(err)

	// Corrupting the signature must invalidate the token.
	_, err = ValidateToken(token[:len(token)-2])
	req.Error(err)

	_, err = ValidateToken("not-a-jwt")
	req.Error(err)
}

func TestIdentityFromHeader(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("bob", time.Hour)
	req.NoError(err)

	r := httptest.NewRequest("GET", "/channels", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	identity, err := IdentityFromHeader(r)
	req.NoError(err)
	req.Equal(Identity("bob"), identity)

	// Missing and garbage headers both map to the same credential error.
	r = httptest.NewRequest("GET", "/channels", nil)
	_, err = IdentityFromHeader(r)
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	r.Header.Set("Authorization", "Bearer garbage")
	_, err = IdentityFromHeader(r)
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestIdentityFromQuery(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("carol", time.Hour)
	req.NoError(err)

	r := httptest.NewRequest("GET", "/ws?token="+token, nil)
	identity, err := IdentityFromQuery(r)
	req.NoError(err)
	req.Equal(Identity("carol"), identity)

	r = httptest.NewRequest("GET", "/ws", nil)
	_, err = IdentityFromQuery(r)
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
