package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotTTL keeps yesterday's snapshot around for inspection after rollover.
const SnapshotTTL = 48 * time.Hour

// RedisSnapshotStore stores each date's snapshot as JSON under "<prefix>:<date>".
type RedisSnapshotStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisSnapshotStore(rdb redis.UniversalClient, prefix string) *RedisSnapshotStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "prizewheel:state"
	}
	return &RedisSnapshotStore{rdb: rdb, prefix: prefix}
}

func (s *RedisSnapshotStore) key(date string) string {
	return s.prefix + ":" + date
}

func (s *RedisSnapshotStore) Load(ctx context.Context, date string) (Snapshot, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("redis get snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", s.key(date), err)
	}
	return snap, true, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(snap.Date), b, SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}
