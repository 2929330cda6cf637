package repositories

import (
	"testing"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func Test_CreateUser_And_Lookup(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))

	id, err := repo.CreateUser("alice", "$argon2id$fake-hash")
	req.NoError(err)
	req.NotEmpty(id)

	user, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("alice", user.Username)
	req.Equal("$argon2id$fake-hash", user.PasswordHash)
	req.False(user.CreatedAt.IsZero())
}

func Test_CreateUser_RejectsDuplicates(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))

	_, err := repo.CreateUser("alice", "hash-1")
	req.NoError(err)

	_, err = repo.CreateUser("alice", "hash-2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	// The original hash must be untouched by the failed attempt.
	user, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal("hash-1", user.PasswordHash)
}

func Test_ListUsernames_SortedKeyOrder(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))

	for _, name := range []string{"clara", "alice", "bob"} {
		_, err := repo.CreateUser(name, "hash")
		req.NoError(err)
	}

	usernames, err := repo.ListUsernames()
	req.NoError(err)
	req.Equal([]string{"alice", "bob", "clara"}, usernames)
}

func Test_GetUserByUsername_Unknown(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	_, err := repo.GetUserByUsername("nobody")
	require.Error(t, err)
}
