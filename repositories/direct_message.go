//go:generate go run go.uber.org/mock/mockgen -source=direct_message.go -destination=../mocks/mock_direct_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IDirectMessageRepository interface {
	StoreDirectMessage(message DiskDirectMessage) error
	GetConversation(userA, userB string, cursor *string) ([]DiskDirectMessage, *string, error)
}

type DirectMessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewDirectMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) DirectMessageRepository {
	return DirectMessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskDirectMessage is the repository-level representation of a direct message.
type DiskDirectMessage struct {
	ID       uuid.UUID
	Sender   string
	Receiver string
	Content  string
	At       time.Time
}

// pairKey orders the two participants lexicographically so that the key of a
// conversation is the same whichever side sent the message. This is what makes
// retrieval symmetric: either party may query with the usernames in any order.
func pairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("dm:%s:%s:", userA, userB)
}

// StoreDirectMessage persists a direct message under the conversation's pair
// key, with the same padded-timestamp-plus-uuid suffix as channel posts.
func (d DirectMessageRepository) StoreDirectMessage(message DiskDirectMessage) error {
	key := fmt.Sprintf("%s%019d:%s",
		pairKey(message.Sender, message.Receiver),
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := cbor.Marshal(toStoredDirectMessage(message))
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetConversation retrieves the direct messages between two users, newest
// first, with the same cursor-based pagination as channel messages.
func (d DirectMessageRepository) GetConversation(userA, userB string, cursor *string) ([]DiskDirectMessage, *string, error) {
	var rawValues [][]byte
	var lastKey string
	err := d.db.View(func(txn *badger.Txn) error {
		prefixStr := pairKey(userA, userB)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if d.limitMessages != nil && len(rawValues) == *d.limitMessages {
				d.log.Debug(fmt.Sprintf("Maximum of %d direct messages reached", *d.limitMessages))
				break
			}
			item := it.Item()
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

	var messages []DiskDirectMessage
	for _, b := range rawValues {
		var stored storedDirectMessage
		if err = cbor.Unmarshal(b, &stored); err != nil {
			return nil, nil, err
		}
		message, err := fromStoredDirectMessage(stored)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

type storedDirectMessage struct {
	ID       string `cbor:"id"`
	Sender   string `cbor:"sender"`
	Receiver string `cbor:"receiver"`
	Content  string `cbor:"content"`
	At       int64  `cbor:"at"`
}

func toStoredDirectMessage(message DiskDirectMessage) storedDirectMessage {
	return storedDirectMessage{
		ID:       message.ID.String(),
		Sender:   message.Sender,
		Receiver: message.Receiver,
		Content:  message.Content,
		At:       message.At.UnixNano(),
	}
}

func fromStoredDirectMessage(stored storedDirectMessage) (DiskDirectMessage, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return DiskDirectMessage{}, err
	}
	return DiskDirectMessage{
		ID:       parsedID,
		Sender:   stored.Sender,
		Receiver: stored.Receiver,
		Content:  stored.Content,
		At:       time.Unix(0, stored.At).UTC(),
	}, nil
}
