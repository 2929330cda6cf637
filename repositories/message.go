//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessages(channelID int64, cursor *string) ([]DiskMessage, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the repository-level representation of a channel post.
type DiskMessage struct {
	ID        uuid.UUID
	ChannelID int64
	Author    string
	Content   string
	At        time.Time
}

// StoreMessage persists a channel post in BadgerDB.
// The key is formatted as "msg:{channel_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
//
// Concurrent writes from independent sessions are safe: badger serializes the
// update transactions internally.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	key := fmt.Sprintf("msg:%d:%019d:%s",
		message.ChannelID,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := cbor.Marshal(toStoredMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves messages for a channel using a prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by
// time; iteration is reversed so the newest page comes first. It stops
// collecting once the configured limitMessages is reached, and returns the
// cursor to resume the next page from.
func (m MessageRepository) GetMessages(channelID int64, cursor *string) ([]DiskMessage, *string, error) {
	var rawValues [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%d:", channelID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawValues) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawValues = append(rawValues, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages, err := decodeStoredMessages(rawValues)
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

// storedMessage is the cbor layout written to disk, kept separate from
// DiskMessage so the storage encoding can evolve without touching callers.
type storedMessage struct {
	ID        string `cbor:"id"`
	ChannelID int64  `cbor:"channel_id"`
	Author    string `cbor:"author"`
	Content   string `cbor:"content"`
	At        int64  `cbor:"at"`
}

func toStoredMessage(message DiskMessage) storedMessage {
	return storedMessage{
		ID:        message.ID.String(),
		ChannelID: message.ChannelID,
		Author:    message.Author,
		Content:   message.Content,
		At:        message.At.UnixNano(),
	}
}

func fromStoredMessage(stored storedMessage) (DiskMessage, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return DiskMessage{}, err
	}
	return DiskMessage{
		ID:        parsedID,
		ChannelID: stored.ChannelID,
		Author:    stored.Author,
		Content:   stored.Content,
		At:        time.Unix(0, stored.At).UTC(),
	}, nil
}

func decodeStoredMessages(rawValues [][]byte) ([]DiskMessage, error) {
	var messages []DiskMessage
	for _, b := range rawValues {
		var stored storedMessage
		if err := cbor.Unmarshal(b, &stored); err != nil {
			return nil, err
		}
		message, err := fromStoredMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
