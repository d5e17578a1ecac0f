package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"airport-cyber-crisis/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// LeaderboardKey is the storage key holding the serialized top entries.
	LeaderboardKey = "airport_leaderboard"
	// DefaultLeaderboardSize is also the hard cap on kept entries.
	DefaultLeaderboardSize = 10
)

// Storage abstracts the keyed store the game persists to (memory, SQLite, Redis, Postgres).
// Load returns domain.ErrNotFound when the key holds no value; Delete of a missing key is not an error.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Leaderboard ranks and persists completed-run summaries.
type Leaderboard struct {
	storage Storage
	key     string
	size    int

	// mu makes each read-modify-write a single step.
	mu sync.Mutex
}

// NewLeaderboard keeps the top size entries; sizes outside 1..DefaultLeaderboardSize use the cap.
func NewLeaderboard(storage Storage, size int) *Leaderboard {
	if size <= 0 || size > DefaultLeaderboardSize {
		size = DefaultLeaderboardSize
	}
	return &Leaderboard{
		storage: storage,
		key:     LeaderboardKey,
		size:    size,
	}
}

// Load reads the persisted leaderboard. Absent or corrupt data yields an empty board.
func (l *Leaderboard) Load(ctx context.Context) []domain.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(ctx)
}

// Top returns at most n leading entries; n <= 0 means all of them.
func (l *Leaderboard) Top(ctx context.Context, n int) []domain.LeaderboardEntry {
	entries := l.Load(ctx)
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Record adds a finished run, re-ranks, truncates and persists the board.
// The ranked board is returned even when persisting fails.
func (l *Leaderboard) Record(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ranked := RankEntries(append(l.loadLocked(ctx), entry), l.size)
	raw, err := json.Marshal(ranked)
	if err != nil {
		return ranked, fmt.Errorf("%w: encode leaderboard: %w", domain.ErrStorage, err)
	}
	if err := l.storage.Save(ctx, l.key, raw); err != nil {
		return ranked, fmt.Errorf("%w: save leaderboard: %w", domain.ErrStorage, err)
	}
	return ranked, nil
}

// Clear empties the persisted board. Clearing an empty board is a no-op.
func (l *Leaderboard) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.storage.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("%w: clear leaderboard: %w", domain.ErrStorage, err)
	}
	return nil
}

func (l *Leaderboard) loadLocked(ctx context.Context) []domain.LeaderboardEntry {
	raw, err := l.storage.Load(ctx, l.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.LeaderboardEntry{}
	}
	if err != nil {
		log.Warn().Err(err).Str("key", l.key).Msg("leaderboard unreadable, starting empty")
		return []domain.LeaderboardEntry{}
	}
	entries, err := DecodeLeaderboard(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", l.key).Msg("leaderboard corrupt, starting empty")
		return []domain.LeaderboardEntry{}
	}
	return RankEntries(entries, l.size)
}

// DecodeLeaderboard parses a serialized board. Malformed input yields a wrapped domain.ErrStorage.
func DecodeLeaderboard(raw []byte) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode leaderboard: %w", domain.ErrStorage, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// RankEntries orders by score then time left, both descending, and keeps the first size entries.
// Exact ties keep their insertion order.
func RankEntries(entries []domain.LeaderboardEntry, size int) []domain.LeaderboardEntry {
	ranked := make([]domain.LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].TimeLeft > ranked[j].TimeLeft
	})
	if size > 0 && len(ranked) > size {
		ranked = ranked[:size]
	}
	return ranked
}
