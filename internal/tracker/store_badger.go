package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps sessions in an embedded Badger database. It is used
// when no Redis server is configured.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("badger dir is required")
	}
	opts := badger.DefaultOptions(dir)
	return NewBadgerStoreWithOptions(opts)
}

func NewBadgerStoreWithOptions(opts badger.Options) (*BadgerStore, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	if sess == nil || strings.TrimSpace(sess.ID) == "" {
		return fmt.Errorf("save session: missing id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := []byte(sessionKey(sess.ID))
	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err == nil {
			var stored Session
			verr := item.Value(func(val []byte) error { return json.Unmarshal(val, &stored) })
			if verr == nil && len(stored.Moves) > len(sess.Moves) {
				return ErrStaleSession
			}
		}
		if err := txn.SetEntry(withTTL(badger.NewEntry(key, raw), ttl)); err != nil {
			return err
		}
		return txn.SetEntry(withTTL(badger.NewEntry([]byte(latestKey), []byte(sess.ID)), ttl))
	})
	if errors.Is(err, badger.ErrConflict) {
		return ErrStaleSession
	}
	return err
}

func withTTL(e *badger.Entry, ttl time.Duration) *badger.Entry {
	if ttl > 0 {
		return e.WithTTL(ttl)
	}
	return e
}

func (s *BadgerStore) Load(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sess *Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey(id)))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var out Session
			if err := json.Unmarshal(val, &out); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
			sess = &out
			return nil
		})
	})
	return sess, err
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(sessionKey(id))); err != nil {
			return err
		}
		item, err := txn.Get([]byte(latestKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		latest, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(latest) == id {
			return txn.Delete([]byte(latestKey))
		}
		return nil
	})
}

func (s *BadgerStore) Latest(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	return id, err
}
