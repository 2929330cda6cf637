package services

import (
	"context"
	"testing"
	"time"

	"chat-relay/mocks"
	"chat-relay/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newChatService(ctrl *gomock.Controller) (*ChatService, *mocks.MockIMessageRepository, *mocks.MockIDirectMessageRepository) {
	messages := mocks.NewMockIMessageRepository(ctrl)
	directs := mocks.NewMockIDirectMessageRepository(ctrl)
	svc := NewChatService(
		messages,
		directs,
		mocks.NewMockIChannelRepository(ctrl),
		mocks.NewMockIUserRepository(ctrl),
		mocks.NewMockIReadMarkRepository(ctrl),
	)
	return svc, messages, directs
}

func TestChatService_AppendChannelPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, messages, _ := newChatService(ctrl)

	var stored repositories.DiskMessage
	messages.EXPECT().
		StoreMessage(gomock.Any()).
		Do(func(m repositories.DiskMessage) { stored = m }).
		Return(nil).
		Times(1)

	before := time.Now().UTC()
	req.NoError(svc.AppendChannelPost(context.Background(), 1, "alice", "hello"))
	after := time.Now().UTC()

	// The id and timestamp must be assigned server-side, never by the caller.
	req.NotEqual(uuid.Nil, stored.ID)
	req.Equal(int64(1), stored.ChannelID)
	req.Equal("alice", stored.Author)
	req.Equal("hello", stored.Content)
	req.False(stored.At.Before(before))
	req.False(stored.At.After(after))
}

func TestChatService_AppendDirectMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, _, directs := newChatService(ctrl)

	var stored repositories.DiskDirectMessage
	directs.EXPECT().
		StoreDirectMessage(gomock.Any()).
		Do(func(m repositories.DiskDirectMessage) { stored = m }).
		Return(nil).
		Times(1)

	req.NoError(svc.AppendDirectMessage(context.Background(), "alice", "bob", "hi bob"))

	req.NotEqual(uuid.Nil, stored.ID)
	req.Equal("alice", stored.Sender)
	req.Equal("bob", stored.Receiver)
	req.Equal("hi bob", stored.Content)
	req.False(stored.At.IsZero())
}

func TestChatService_GetChannelMessages_PassesCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, messages, _ := newChatService(ctrl)

	cursor := "msg:1:0000000000000000042:x"
	next := "msg:1:0000000000000000041:y"
	expected := []repositories.DiskMessage{{Author: "alice", Content: "hello"}}

	messages.EXPECT().
		GetMessages(int64(1), &cursor).
		Return(expected, &next, nil).
		Times(1)

	got, gotNext, err := svc.GetChannelMessages(1, &cursor)
	req.NoError(err)
	req.Equal(expected, got)
	req.Equal(&next, gotNext)
}
