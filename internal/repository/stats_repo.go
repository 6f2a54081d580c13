package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"jokenpo/internal/domain"
	"jokenpo/internal/game"

	redis "github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "jokenpo:"

var ErrUnknownBucket = errors.New("unknown stats bucket")

// StatsRepository stores lifetime counters in Redis.
// key format: jokenpo:<player>:<bucket>
type StatsRepository struct {
	rdb *redis.Client
}

func NewStatsRepository(rdb *redis.Client) *StatsRepository {
	return &StatsRepository{rdb: rdb}
}

func statsKey(playerID, field string) string {
	return statsKeyPrefix + playerID + ":" + field
}

// Load reads all counters and the music preference in one round trip.
func (r *StatsRepository) Load(ctx context.Context, playerID string) (domain.LifetimeStats, error) {
	keys := []string{
		statsKey(playerID, string(game.BucketWins)),
		statsKey(playerID, string(game.BucketLosses)),
		statsKey(playerID, string(game.BucketDraws)),
		statsKey(playerID, "music_enabled"),
	}

	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return domain.LifetimeStats{}, fmt.Errorf("load stats: %w", err)
	}

	stats := domain.LifetimeStats{
		Wins:         parseCounter(vals[0]),
		Losses:       parseCounter(vals[1]),
		Draws:        parseCounter(vals[2]),
		MusicEnabled: true,
	}
	// anything but an explicit "false" keeps music on
	if s, ok := vals[3].(string); ok && s == "false" {
		stats.MusicEnabled = false
	}
	return stats, nil
}

// Increment bumps one counter and returns its new value.
func (r *StatsRepository) Increment(ctx context.Context, playerID string, bucket game.Bucket) (int64, error) {
	if bucket == game.BucketNone {
		return 0, ErrUnknownBucket
	}
	n, err := r.rdb.Incr(ctx, statsKey(playerID, string(bucket))).Result()
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", bucket, err)
	}
	return n, nil
}

func (r *StatsRepository) SetMusicEnabled(ctx context.Context, playerID string, enabled bool) error {
	return r.rdb.Set(ctx, statsKey(playerID, "music_enabled"), strconv.FormatBool(enabled), 0).Err()
}

func parseCounter(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// MemoryStatsRepository keeps counters in process memory. Used when Redis is
// not configured and in tests.
type MemoryStatsRepository struct {
	mu    sync.Mutex
	stats map[string]domain.LifetimeStats
	seen  map[string]bool
}

func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{
		stats: make(map[string]domain.LifetimeStats),
		seen:  make(map[string]bool),
	}
}

func (r *MemoryStatsRepository) get(playerID string) domain.LifetimeStats {
	if !r.seen[playerID] {
		r.seen[playerID] = true
		r.stats[playerID] = domain.LifetimeStats{MusicEnabled: true}
	}
	return r.stats[playerID]
}

func (r *MemoryStatsRepository) Load(_ context.Context, playerID string) (domain.LifetimeStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(playerID), nil
}

func (r *MemoryStatsRepository) Increment(_ context.Context, playerID string, bucket game.Bucket) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(playerID)
	var n int64
	switch bucket {
	case game.BucketWins:
		s.Wins++
		n = s.Wins
	case game.BucketLosses:
		s.Losses++
		n = s.Losses
	case game.BucketDraws:
		s.Draws++
		n = s.Draws
	default:
		return 0, ErrUnknownBucket
	}
	r.stats[playerID] = s
	return n, nil
}

func (r *MemoryStatsRepository) SetMusicEnabled(_ context.Context, playerID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(playerID)
	s.MusicEnabled = enabled
	r.stats[playerID] = s
	return nil
}
