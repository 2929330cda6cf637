//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=../mocks/mock_channel_repository.go -package=mocks
package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

type IChannelRepository interface {
	EnsureChannel(id int64, name string) error
	ListChannels() ([]Channel, error)
}

type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) IChannelRepository {
	return &ChannelRepository{db: db}
}

type Channel struct {
	ID   int64  `json:"id" cbor:"id"`
	Name string `json:"name" cbor:"name"`
}

// EnsureChannel creates the channel if it does not exist yet. Existing
// channels are left untouched so renames never happen implicitly at boot.
func (c ChannelRepository) EnsureChannel(id int64, name string) error {
	data, err := cbor.Marshal(Channel{ID: id, Name: name})
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		key := []byte(channelKey(id))
		if _, err := txn.Get(key); err == nil {
			return nil
		}
		return txn.Set(key, data)
	})
}

// ListChannels returns all channels sorted by id (the zero-padded key order).
func (c ChannelRepository) ListChannels() ([]Channel, error) {
	var channels []Channel
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("channel:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var ch Channel
				if err := cbor.Unmarshal(val, &ch); err != nil {
					return err
				}
				channels = append(channels, ch)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return channels, err
}

func channelKey(id int64) string {
	return fmt.Sprintf("channel:%019d", id)
}
