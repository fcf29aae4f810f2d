package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// DiskStore stores snapshots as JSON files in a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore, creating dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Save implements Store.
func (s *DiskStore) Save(_ context.Context, snap Snapshot) (string, error) {
	stamp(&snap)
	key := newKey(snap.Name, snap.TakenAt)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return "", err
	}
	return key, nil
}

// Load implements Store.
func (s *DiskStore) Load(_ context.Context, key string) (Snapshot, error) {
	var snap Snapshot
	if sanitize(key) != key {
		return snap, ErrNotFound
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return snap, ErrNotFound
		}
		return snap, err
	}
	err = json.Unmarshal(data, &snap)
	return snap, err
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
