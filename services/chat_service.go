package services

import (
	"context"
	"time"

	"chat-relay/repositories"

	"github.com/google/uuid"
)

type IChatService interface {
	// Relay-facing writes (the relay.Gateway contract).
	AppendChannelPost(ctx context.Context, channelID int64, author, content string) error
	AppendDirectMessage(ctx context.Context, sender, receiver, content string) error

	// Read paths for the plain request endpoints.
	GetChannelMessages(channelID int64, cursor *string) ([]repositories.DiskMessage, *string, error)
	GetConversation(userA, userB string, cursor *string) ([]repositories.DiskDirectMessage, *string, error)
	ListChannels() ([]repositories.Channel, error)
	ListUsers() ([]string, error)
	MarkChannelRead(username string, channelID int64) error
}

// ChatService glues the relay and the request endpoints to the repositories.
// It owns nothing stateful itself; all state lives in the store.
type ChatService struct {
	messages repositories.IMessageRepository
	directs  repositories.IDirectMessageRepository
	channels repositories.IChannelRepository
	users    repositories.IUserRepository
	reads    repositories.IReadMarkRepository
}

func NewChatService(
	messages repositories.IMessageRepository,
	directs repositories.IDirectMessageRepository,
	channels repositories.IChannelRepository,
	users repositories.IUserRepository,
	reads repositories.IReadMarkRepository,
) *ChatService {
	return &ChatService{
		messages: messages,
		directs:  directs,
		channels: channels,
		users:    users,
		reads:    reads,
	}
}

// AppendChannelPost durably records an accepted channel post. Timestamps and
// IDs are assigned here, server-side, never taken from the client frame.
func (s *ChatService) AppendChannelPost(_ context.Context, channelID int64, author, content string) error {
	return s.messages.StoreMessage(repositories.DiskMessage{
		ID:        uuid.New(),
		ChannelID: channelID,
		Author:    author,
		Content:   content,
		At:        time.Now().UTC(),
	})
}

// AppendDirectMessage durably records an accepted direct message.
func (s *ChatService) AppendDirectMessage(_ context.Context, sender, receiver, content string) error {
	return s.directs.StoreDirectMessage(repositories.DiskDirectMessage{
		ID:       uuid.New(),
		Sender:   sender,
		Receiver: receiver,
		Content:  content,
		At:       time.Now().UTC(),
	})
}

func (s *ChatService) GetChannelMessages(channelID int64, cursor *string) ([]repositories.DiskMessage, *string, error) {
	return s.messages.GetMessages(channelID, cursor)
}

func (s *ChatService) GetConversation(userA, userB string, cursor *string) ([]repositories.DiskDirectMessage, *string, error) {
	return s.directs.GetConversation(userA, userB, cursor)
}

func (s *ChatService) ListChannels() ([]repositories.Channel, error) {
	return s.channels.ListChannels()
}

func (s *ChatService) ListUsers() ([]string, error) {
	return s.users.ListUsernames()
}

func (s *ChatService) MarkChannelRead(username string, channelID int64) error {
	return s.reads.MarkRead(username, channelID, time.Now().UTC())
}
