package db

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"datatalk/models"
)

type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

// StoreSession saves a server-side session record under an opaque ID (the
// value the browser cookie holds).
func (d *DB) StoreSession(id string, session models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(
			[]byte("session:"+id), data).WithTTL(24 * time.Hour))
	})
}

func (d *DB) GetSession(id string) (*models.Session, error) {
	var session models.Session
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("session:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DB) DeleteSession(id string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte("session:" + id))
	})
}

func (d *DB) StoreChatHistory(userID string, entry models.ChatHistory) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		timestamp := time.Now().UnixNano()
		key := []byte(fmt.Sprintf("chat:%s:%d", userID, timestamp))

		if entry.Timestamp == "" {
			entry.Timestamp = strconv.FormatInt(time.Now().Unix(), 10)
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetChatHistory returns a user's chat history, newest first.
func (d *DB) GetChatHistory(userID string, limit int) ([]models.ChatHistory, error) {
	var history []models.ChatHistory

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("chat:" + userID + ":")
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts past the end of the prefix range.
		seekKey := append([]byte("chat:"+userID+":"), 0xFF)
		for it.Seek(seekKey); it.Valid(); it.Next() {
			if limit > 0 && len(history) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var entry models.ChatHistory
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				history = append(history, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return history, err
}
