package repositories

import (
	"testing"
	"time"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func Test_EnsureChannel_IsIdempotent(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(testDB(t))

	req.NoError(repo.EnsureChannel(1, "general"))
	// Re-ensuring must not rename an existing channel.
	req.NoError(repo.EnsureChannel(1, "renamed"))
	req.NoError(repo.EnsureChannel(2, "random"))

	channels, err := repo.ListChannels()
	req.NoError(err)
	req.Equal([]Channel{{ID: 1, Name: "general"}, {ID: 2, Name: "random"}}, channels)
}

func Test_ReadMarks_RoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewReadMarkRepository(testDB(t))

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	req.NoError(repo.MarkRead("alice", 1, at))

	got, err := repo.LastRead("alice", 1)
	req.NoError(err)
	req.True(at.Equal(got))

	// Marks are overwritten, not accumulated.
	later := at.Add(time.Hour)
	req.NoError(repo.MarkRead("alice", 1, later))
	got, err = repo.LastRead("alice", 1)
	req.NoError(err)
	req.True(later.Equal(got))
}

func Test_ReadMarks_UnreadChannel(t *testing.T) {
	repo := NewReadMarkRepository(testDB(t))
	_, err := repo.LastRead("alice", 99)
	require.ErrorIs(t, err, errors.ErrNotFound)
}
