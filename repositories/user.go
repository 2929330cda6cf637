//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, hashedPassword string) (string, error)
	GetUserByUsername(username string) (User, error)
	ListUsernames() ([]string, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the domain-friendly representation of a user in the repository layer.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type storedUser struct {
	ID           string `cbor:"id"`
	Username     string `cbor:"username"`
	PasswordHash string `cbor:"password_hash"`
	CreatedAt    int64  `cbor:"created_at"`
}

// CreateUser persists the user and returns the newly generated user ID.
// The username is the key, so registration conflicts surface as
// ErrUserAlreadyExists inside the same transaction that would insert.
func (u UserRepository) CreateUser(username, hashedPassword string) (string, error) {
	newID := uuid.New().String()
	stored := storedUser{
		ID:           newID,
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().Unix(),
	}

	data, err := cbor.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + username)
		if _, err = txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})

	return newID, err
}

// GetUserByUsername retrieves a user and converts it to the repository.User struct.
func (u UserRepository) GetUserByUsername(username string) (User, error) {
	var stored storedUser

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + username))
		if err != nil {
			return err // Callers map this to ErrInvalidCredentials or ErrNotFound
		}

		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &stored)
		})
	})

	if err != nil {
		return User{}, err
	}

	return User{
		ID:           stored.ID,
		Username:     stored.Username,
		PasswordHash: stored.PasswordHash,
		CreatedAt:    time.Unix(stored.CreatedAt, 0).UTC(),
	}, nil
}

// ListUsernames returns every registered username in key order. Key-only
// iteration: the username is the key suffix, no value decode needed.
func (u UserRepository) ListUsernames() ([]string, error) {
	var usernames []string
	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			usernames = append(usernames, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return usernames, err
}
