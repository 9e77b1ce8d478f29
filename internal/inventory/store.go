package inventory

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/prize"
)

// Store owns the ledger and snapshot boundary. IO failures are logged
// and degrade to safe values; the engine's in-memory stock stays authoritative.
type Store struct {
	LedgerPath string
	Snapshots  SnapshotStore
	Logger     *zap.Logger
	// DryRun suppresses snapshot writes.
	DryRun bool
}

func (s *Store) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ApplyPersistedState overlays a same-date snapshot onto base. Prizes absent
// from the snapshot keep their base value. The returned slice is a copy.
func (s *Store) ApplyPersistedState(ctx context.Context, date string, cat prize.Catalog, base []int) []int {
	out := append([]int(nil), base...)
	if s.Snapshots == nil {
		return out
	}
	logger := s.logger()
	snap, found, err := s.Snapshots.Load(ctx, date)
	if err != nil {
		logger.Warn("snapshot unreadable, using ledger stock", zap.String("date", date), zap.Error(err))
		return out
	}
	if !found {
		return out
	}
	if strings.TrimSpace(snap.Date) != date {
		logger.Info("snapshot ignored", zap.String("date", date),
			zap.String("snapshot_date", snap.Date), zap.Error(ErrDateMismatch))
		return out
	}
	applied := 0
	for _, e := range snap.Prizes {
		i := cat.IndexOf(strings.TrimSpace(e.ID))
		if i < 0 || i >= len(out) {
			continue
		}
		v := e.Remaining
		if v < 0 {
			v = 0
		}
		out[i] = v
		applied++
	}
	logger.Info("snapshot restored", zap.String("date", date), zap.Int("prizes", applied))
	return out
}

// Commit persists remaining for date. Errors are logged and returned for
// diagnostics only; callers keep running on in-memory state.
func (s *Store) Commit(ctx context.Context, date string, cat prize.Catalog, remaining []int) error {
	if s.DryRun || s.Snapshots == nil {
		return nil
	}
	snap := Snapshot{Date: date, Prizes: make([]SnapshotEntry, 0, cat.Len())}
	for i, p := range cat.Prizes {
		v := 0
		if i < len(remaining) && remaining[i] > 0 {
			v = remaining[i]
		}
		snap.Prizes = append(snap.Prizes, SnapshotEntry{ID: p.ID, Remaining: v})
	}
	if err := s.Snapshots.Save(ctx, snap); err != nil {
		s.logger().Error("snapshot write failed", zap.String("date", date), zap.Error(err))
		return err
	}
	return nil
}
