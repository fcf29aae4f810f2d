package snapshot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/internal/errors"
)

// ErrNotFound is returned when a snapshot key does not exist.
var ErrNotFound = stderrors.New("snapshot: not found")

// Snapshot is the serialized content of a canvas.
type Snapshot struct {
	Name    string    `json:"name"`
	HTML    string    `json:"html"`
	Seq     uint64    `json:"seq"`
	TakenAt time.Time `json:"taken_at"`
}

// Store persists snapshots.
type Store interface {
	// Save stores s and returns its key.
	Save(ctx context.Context, s Snapshot) (string, error)

	// Load returns the snapshot stored under key.
	Load(ctx context.Context, key string) (Snapshot, error)
}

// FromConfig returns the store selected by cfg: S3 when a bucket is set,
// otherwise a directory. Neither yields E220.
func FromConfig(cfg config.SnapshotConfig) (Store, error) {
	switch {
	case cfg.Bucket != "":
		client, err := NewS3Client(cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
	case cfg.Dir != "":
		return NewDiskStore(cfg.Dir)
	default:
		return nil, errors.New("E220").
			WithSuggestion("Set snapshot.dir or snapshot.bucket in " + config.ConfigFileName)
	}
}

// newKey returns a sortable, unique key for a snapshot of name.
func newKey(name string, at time.Time) string {
	b := make([]byte, 4)
	rand.Read(b)
	if name = sanitize(name); name == "" {
		name = "snapshot"
	}
	return name + "-" + at.UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(b)
}

// sanitize keeps key characters that are safe on disk and in S3.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}

func stamp(s *Snapshot) {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now()
	}
}
