package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"jokenpo/internal/game"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

func TestMemoryStatsRepository(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	s, err := repo.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Total() != 0 || !s.MusicEnabled {
		t.Fatalf("unexpected fresh stats: %+v", s)
	}

	if n, err := repo.Increment(ctx, "p1", game.BucketWins); err != nil || n != 1 {
		t.Fatalf("increment wins = %d, %v", n, err)
	}
	if n, err := repo.Increment(ctx, "p1", game.BucketWins); err != nil || n != 2 {
		t.Fatalf("increment wins = %d, %v", n, err)
	}
	if _, err := repo.Increment(ctx, "p1", game.BucketNone); !errors.Is(err, ErrUnknownBucket) {
		t.Fatalf("expected ErrUnknownBucket, got %v", err)
	}
	if err := repo.SetMusicEnabled(ctx, "p1", false); err != nil {
		t.Fatalf("set music: %v", err)
	}

	s, _ = repo.Load(ctx, "p1")
	if s.Wins != 2 || s.MusicEnabled {
		t.Fatalf("unexpected stats: %+v", s)
	}

	other, _ := repo.Load(ctx, "p2")
	if other.Total() != 0 {
		t.Fatalf("players must not share counters: %+v", other)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestStatsRepositoryRedisIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := NewStatsRepository(rdb)
	player := uuid.NewString()

	s, err := repo.Load(ctx, player)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Total() != 0 || !s.MusicEnabled {
		t.Fatalf("unexpected fresh stats: %+v", s)
	}

	if _, err := repo.Increment(ctx, player, game.BucketDraws); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := repo.SetMusicEnabled(ctx, player, false); err != nil {
		t.Fatalf("set music: %v", err)
	}

	s, err = repo.Load(ctx, player)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Draws != 1 || s.MusicEnabled {
		t.Fatalf("unexpected stats after writes: %+v", s)
	}
}
