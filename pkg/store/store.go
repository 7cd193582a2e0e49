// Package store persists saved games in a local bbolt file. Records are
// small JSON blobs keyed by a human-friendly name so games can be resumed
// from the command line.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const gamesBucket = "games"

// ErrNotFound is returned when no saved game has the requested name.
var ErrNotFound = errors.New("store: game not found")

// Record is one saved game. FEN is enough to resume; PGN keeps the full
// history for export.
type Record struct {
	Name    string `json:"name"`
	FEN     string `json:"fen"`
	PGN     string `json:"pgn"`
	SavedAt int64  `json:"saved_at"`
}

// Store is a bbolt-backed saved-game store.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// Open opens (or creates) the store file and its bucket.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(gamesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

// Save writes the record, generating a name when none is set, and
// returns the name it was stored under.
func (s *Store) Save(rec Record) (string, error) {
	if rec.Name == "" {
		name, err := s.freshName()
		if err != nil {
			return "", err
		}
		rec.Name = name
	}
	if rec.SavedAt == 0 {
		rec.SavedAt = time.Now().Unix()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("store: marshal %s: %w", rec.Name, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(gamesBucket)).Put([]byte(rec.Name), data)
	})
	if err != nil {
		return "", fmt.Errorf("store: save %s: %w", rec.Name, err)
	}
	s.log.Info("game saved", zap.String("name", rec.Name))
	return rec.Name, nil
}

// freshName generates a petname not already in use. After a few
// collisions it falls back to a timestamp suffix.
func (s *Store) freshName() (string, error) {
	for i := 0; i < 5; i++ {
		name := petname.Generate(2, "-")
		exists, err := s.exists(name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
	return fmt.Sprintf("%s-%d", petname.Generate(2, "-"), time.Now().Unix()), nil
}

func (s *Store) exists(name string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(gamesBucket)).Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

// Load returns the record saved under name.
func (s *Store) Load(name string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(gamesBucket)).Get([]byte(name))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, fmt.Errorf("store: %q: %w", name, ErrNotFound)
		}
		return Record{}, fmt.Errorf("store: load %s: %w", name, err)
	}
	return rec, nil
}

// List returns all saved games, most recent first.
func (s *Store) List() ([]Record, error) {
	var recs []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(gamesBucket)).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].SavedAt != recs[j].SavedAt {
			return recs[i].SavedAt > recs[j].SavedAt
		}
		return recs[i].Name < recs[j].Name
	})
	return recs, nil
}

// Delete removes a saved game.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gamesBucket))
		if b.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("store: %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
