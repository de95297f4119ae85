// Package store keeps the latest phase snapshot of every match in PebbleDB.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble/v2"

	"github.com/gosuda/portal-mafia/mafia/match"
)

// ErrNotFound is returned when a match has no stored snapshot.
var ErrNotFound = errors.New("snapshot not found")

var keyPrefix = []byte("match/")

// Record is what gets stored per match.
type Record struct {
	MatchID     string         `json:"match_id"`
	Snapshot    match.Snapshot `json:"snapshot"`
	InstalledAt time.Time      `json:"installed_at"`
	Deadline    time.Time      `json:"deadline"`
}

// Store persists phase snapshots. A nil *Store is valid and stores nothing.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the database under dir. An empty dir returns a nil
// store so the server can run in memory only.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := pebble.Open(filepath.Join(dir, "phases"), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble db: %w", err)
	}
	return &Store{db: db}, nil
}

func key(matchID string) []byte {
	return append(append([]byte{}, keyPrefix...), matchID...)
}

// Save replaces the stored record of rec.MatchID.
func (s *Store) Save(rec Record) error {
	if s == nil || s.db == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.db.Set(key(rec.MatchID), data, pebble.Sync); err != nil {
		return fmt.Errorf("save snapshot %s: %w", rec.MatchID, err)
	}
	return nil
}

// Load returns the stored record of matchID.
func (s *Store) Load(matchID string) (Record, error) {
	var rec Record
	if s == nil || s.db == nil {
		return rec, ErrNotFound
	}
	data, closer, err := s.db.Get(key(matchID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("load snapshot %s: %w", matchID, err)
	}
	defer closer.Close()
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode snapshot %s: %w", matchID, err)
	}
	return rec, nil
}

// List returns the ids of every stored match in key order.
func (s *Store) List() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	upper := append(append([]byte{}, keyPrefix[:len(keyPrefix)-1]...), keyPrefix[len(keyPrefix)-1]+1)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: keyPrefix, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = it.Close() }()
	var ids []string
	for it.First(); it.Valid(); it.Next() {
		ids = append(ids, string(bytes.TrimPrefix(it.Key(), keyPrefix)))
	}
	return ids, nil
}

// Delete forgets matchID.
func (s *Store) Delete(matchID string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Delete(key(matchID), pebble.Sync); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", matchID, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
