// Package storage persists the browsing session and cached uploader feeds
// in a bbolt file.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	uploadsBucket = []byte("uploads")

	sessionKey = []byte("current")
)

// DefaultTimeout bounds how long Open waits for the file lock.
const DefaultTimeout = 1 * time.Second

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{sessionBucket, uploadsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession replaces the stored session blob.
func (s *Store) SaveSession(blob []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(sessionKey, blob)
	})
}

// LoadSession returns the stored session blob, or nil when none was saved.
func (s *Store) LoadSession() ([]byte, error) {
	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(sessionBucket).Get(sessionKey); data != nil {
			blob = append([]byte(nil), data...)
		}
		return nil
	})
	return blob, err
}

// ClearSession drops the stored session so the next start is fresh.
func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}

func (s *Store) SaveUploads(u *Uploads) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		return tx.Bucket(uploadsBucket).Put([]byte(u.Uploader), data)
	})
}

// GetUploads returns the cached feed of uploader, or nil when there is none.
func (s *Store) GetUploads(uploader string) (*Uploads, error) {
	var u *Uploads
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(uploadsBucket).Get([]byte(uploader))
		if data == nil {
			return nil
		}
		u = &Uploads{}
		return json.Unmarshal(data, u)
	})
	if err != nil {
		return nil, fmt.Errorf("reading uploads of %s: %w", uploader, err)
	}
	return u, nil
}

// GetAllUploads returns every cached feed, keyed by uploader.
func (s *Store) GetAllUploads() (map[string]*Uploads, error) {
	all := make(map[string]*Uploads)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(uploadsBucket).ForEach(func(k, v []byte) error {
			var u Uploads
			if err := json.Unmarshal(v, &u); err != nil {
				return nil
			}
			all[string(k)] = &u
			return nil
		})
	})
	return all, err
}

func (s *Store) DeleteUploads(uploader string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(uploadsBucket).Delete([]byte(uploader))
	})
}

// PruneUploads drops cached feeds of uploaders not in keep that were last
// fetched more than maxAge ago. It returns how many were removed.
func (s *Store) PruneUploads(keep []string, maxAge time.Duration) (int, error) {
	all, err := s.GetAllUploads()
	if err != nil {
		return 0, fmt.Errorf("listing uploads: %w", err)
	}

	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		kept[u] = true
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for uploader, u := range all {
		if kept[uploader] || u.LastFetched.After(cutoff) {
			continue
		}
		if err := s.DeleteUploads(uploader); err != nil {
			return removed, fmt.Errorf("deleting uploads of %s: %w", uploader, err)
		}
		removed++
	}
	return removed, nil
}
