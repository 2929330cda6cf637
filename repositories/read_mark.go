//go:generate go run go.uber.org/mock/mockgen -source=read_mark.go -destination=../mocks/mock_read_mark_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

type IReadMarkRepository interface {
	MarkRead(username string, channelID int64, at time.Time) error
	LastRead(username string, channelID int64) (time.Time, error)
}

// ReadMarkRepository tracks, per user and channel, when the channel was last
// read. Used by clients to compute unread badges.
type ReadMarkRepository struct {
	db *badger.DB
}

func NewReadMarkRepository(db *badger.DB) IReadMarkRepository {
	return &ReadMarkRepository{db: db}
}

type storedReadMark struct {
	At int64 `cbor:"at"`
}

func readMarkKey(username string, channelID int64) []byte {
	return []byte(fmt.Sprintf("read:%s:%019d", username, channelID))
}

// MarkRead overwrites the user's read mark for the channel.
func (r ReadMarkRepository) MarkRead(username string, channelID int64, at time.Time) error {
	data, err := cbor.Marshal(storedReadMark{At: at.UnixNano()})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(readMarkKey(username, channelID), data)
	})
}

// LastRead returns the user's read mark for the channel, or ErrNotFound when
// the user never read it.
func (r ReadMarkRepository) LastRead(username string, channelID int64) (time.Time, error) {
	var stored storedReadMark
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(readMarkKey(username, channelID))
		if err != nil {
			return errors.ErrNotFound
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, stored.At).UTC(), nil
}
