package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDateMismatch marks a snapshot that belongs to a different day.
var ErrDateMismatch = errors.New("snapshot date does not match active date")

// Snapshot is the persisted remaining stock for one date.
type Snapshot struct {
	Date   string          `json:"date"`
	Prizes []SnapshotEntry `json:"prizes"`
}

type SnapshotEntry struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// SnapshotStore persists remaining stock keyed by date.
// Load reports found=false, nil error when nothing is stored for date.
type SnapshotStore interface {
	Load(ctx context.Context, date string) (snap Snapshot, found bool, err error)
	Save(ctx context.Context, snap Snapshot) error
}

// FileSnapshotStore keeps one JSON file per date under Dir.
type FileSnapshotStore struct {
	Dir string
}

func NewFileSnapshotStore(dir string) *FileSnapshotStore {
	return &FileSnapshotStore{Dir: dir}
}

func (s *FileSnapshotStore) path(date string) string {
	return filepath.Join(s.Dir, "state_"+date+".json")
}

func (s *FileSnapshotStore) Load(_ context.Context, date string) (Snapshot, bool, error) {
	b, err := os.ReadFile(s.path(date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", s.path(date), err)
	}
	return snap, true, nil
}

// Save writes through a temp file and rename so a crash never leaves a torn snapshot.
func (s *FileSnapshotStore) Save(_ context.Context, snap Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	dst := s.path(snap.Date)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
