package app

import (
	"context"
	"errors"
	"strings"

	"airport-cyber-crisis/internal/domain"
	"github.com/rs/zerolog/log"
)

// PlayerNameKey holds the last player name used on a device.
const PlayerNameKey = "arc_player"

// NameMemory remembers the player name across runs to pre-fill the start prompt.
type NameMemory struct {
	storage Storage
}

func NewNameMemory(storage Storage) *NameMemory {
	return &NameMemory{storage: storage}
}

// Recall returns the remembered name or "" when none is stored.
func (m *NameMemory) Recall(ctx context.Context, device string) string {
	raw, err := m.storage.Load(ctx, nameKey(device))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("device", device).Msg("recall player name")
		}
		return ""
	}
	return string(raw)
}

func (m *NameMemory) Remember(ctx context.Context, device, name string) error {
	return m.storage.Save(ctx, nameKey(device), []byte(strings.TrimSpace(name)))
}

func nameKey(device string) string {
	if device == "" {
		return PlayerNameKey
	}
	return PlayerNameKey + ":" + device
}
