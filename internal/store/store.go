// Package store provides a thin bbolt wrapper for selene's reading history.
//
// Design philosophy: the store is an intentional data accumulator, not a
// cache. Readings are written explicitly (watch --record, now --record) and
// read back by the store and chart commands. No TTL, no auto-invalidation —
// you own your data.
//
// Buckets:
//
//	readings — one entry per refresh cycle, keyed by taken-at instant
//	_meta    — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/selenecli/selene/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// readingKeyLayout is the key format for the readings bucket: UTC with a
// fixed-width nanosecond fraction, so lexicographic key order is
// chronological order.
const readingKeyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Bucket name constants.
var (
	bucketReadings = []byte("readings")
	bucketInternal = []byte("_meta")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"readings"}

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// ─── Migrations ───────────────────────────────────────────────────────────────

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketReadings, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Readings ─────────────────────────────────────────────────────────────────

// ReadingKey builds the canonical bucket key for a reading.
func ReadingKey(takenAt time.Time) string {
	return takenAt.UTC().Format(readingKeyLayout)
}

// PutReading stores one refresh-cycle reading, keyed by its taken-at
// instant. Writing the same instant twice overwrites the earlier entry.
func (s *Store) PutReading(r model.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding reading: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReadings).Put([]byte(ReadingKey(r.TakenAt)), data)
	})
}

// GetReading retrieves the reading taken at the given instant.
// Returns (reading, true, nil) if found, (zero, false, nil) if not found.
func (s *Store) GetReading(takenAt time.Time) (model.Reading, bool, error) {
	var r model.Reading
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketReadings).Get([]byte(ReadingKey(takenAt)))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return model.Reading{}, false, err
	}
	return r, found, nil
}

// LatestReading returns the most recently taken reading.
func (s *Store) LatestReading() (model.Reading, bool, error) {
	var r model.Reading
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket(bucketReadings).Cursor().Last()
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return model.Reading{}, false, err
	}
	return r, found, nil
}

// ListReadings returns readings newest first. limit <= 0 returns all.
func (s *Store) ListReadings(limit int) ([]model.Reading, error) {
	var readings []model.Reading
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketReadings).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r model.Reading
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding reading %s: %w", k, err)
			}
			readings = append(readings, r)
			if limit > 0 && len(readings) >= limit {
				break
			}
		}
		return nil
	})
	return readings, err
}

// Prune deletes all readings taken before cutoff. Returns the number of
// entries removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	key := []byte(ReadingKey(cutoff))
	pruned := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReadings)
		c := b.Cursor()
		for k, _ := c.First(); k != nil && string(k) < string(key); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
			pruned++
		}
		return nil
	})
	return pruned, err
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all user-facing buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket([]byte(name))
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}
