package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/overscroll/internal/feed"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketItems = []byte("items")
)

// FeedStore implements feed.Store using BoltDB, so fetched pages survive
// between runs. With an empty directory it degrades to memory-only mode.
type FeedStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects the memory fallback

	// Memory-only fallback when no cache directory is configured
	mem map[string][]byte
}

func NewFeedStore(cacheDir string) (*FeedStore, error) {
	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return &FeedStore{mem: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "overscroll.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketItems)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &FeedStore{db: db}, nil
}

func (s *FeedStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the cached feed with the given items.
func (s *FeedStore) Save(items []feed.Item) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mem = make(map[string][]byte, len(items))
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
			}
			s.mem[item.ID] = data
		}
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketItems); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketItems)
		if err != nil {
			return err
		}
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
			}
			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the cached feed, most recent first.
func (s *FeedStore) Load() ([]feed.Item, error) {
	var raw [][]byte

	if s.db == nil {
		s.mu.RLock()
		for _, data := range s.mem {
			raw = append(raw, data)
		}
		s.mu.RUnlock()
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketItems)
			if b == nil {
				return nil
			}
			return b.ForEach(func(_, v []byte) error {
				data := make([]byte, len(v))
				copy(data, v)
				raw = append(raw, data)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	}

	items := make([]feed.Item, 0, len(raw))
	for _, data := range raw {
		var item feed.Item
		if err := json.Unmarshal(data, &item); err != nil {
			continue // Skip corrupted entries
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	return items, nil
}
