package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStorageRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewStorage(newClient(mr), "arcade:", 0)

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "arc_player", []byte("Ava")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := mr.Get("arcade:arc_player"); got != "Ava" {
		t.Fatalf("expected prefixed key, got %q", got)
	}
	got, err := store.Load(ctx, "arc_player")
	if err != nil || string(got) != "Ava" {
		t.Fatalf("load: %q %v", got, err)
	}

	if err := store.Delete(ctx, "arc_player"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "arc_player"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if mr.Exists("arcade:arc_player") {
		t.Fatalf("expected key removed")
	}
}

func TestStorageAppliesTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStorage(newClient(mr), "", time.Hour)
	if err := store.Save(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := store.Load(context.Background(), "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestLeaderboardOverRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	board := app.NewLeaderboard(NewStorage(newClient(mr), "", 0), 10)

	if _, err := board.Record(ctx, domain.LeaderboardEntry{Name: "Ava", Score: 130, TimeLeft: 1800}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := board.Record(ctx, domain.LeaderboardEntry{Name: "Ben", Score: 260, TimeLeft: 1700}); err != nil {
		t.Fatalf("record: %v", err)
	}
	entries := board.Load(ctx)
	if len(entries) != 2 || entries[0].Name != "Ben" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	// Corrupt value written by something else falls back to empty.
	if err := mr.Set(app.LeaderboardKey, "<html>"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := board.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty board for corrupt data, got %+v", got)
	}
}

func TestStorageUnavailableIsRecoveredAsEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	board := app.NewLeaderboard(NewStorage(client, "", 0), 10)
	if got := board.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty board when redis is down, got %+v", got)
	}
	if _, err := board.Record(context.Background(), domain.LeaderboardEntry{Name: "Ava"}); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
