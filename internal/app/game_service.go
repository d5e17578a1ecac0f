package app

import (
	"context"
	"fmt"

	"airport-cyber-crisis/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// GameService contains the core game use cases.
type GameService struct {
	sessions SessionRepository
	bank     *QuestionBank
	board    *Leaderboard
	names    *NameMemory
	rules    Rules
	clock    clockwork.Clock
	newID    func() string
}

func NewGameService(sessions SessionRepository, bank *QuestionBank, board *Leaderboard, names *NameMemory, rules Rules, clock clockwork.Clock) *GameService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &GameService{
		sessions: sessions,
		bank:     bank,
		board:    board,
		names:    names,
		rules:    rules,
		clock:    clock,
		newID:    uuid.NewString,
	}
}

// Open creates a Welcome-stage session and returns it with the name remembered for device.
func (g *GameService) Open(ctx context.Context, device string) (*Session, string) {
	session := NewSession(g.newID(), g.bank, g.board,
		WithRules(g.rules),
		WithClock(g.clock),
		WithDevice(device),
	)
	g.sessions.Put(session)
	log.Debug().Str("session_id", session.ID()).Str("device", device).Msg("session opened")
	return session, g.names.Recall(ctx, device)
}

// Start begins a run and remembers the player name for the session's device.
func (g *GameService) Start(ctx context.Context, sessionID, name string) error {
	session, err := g.lookup(sessionID)
	if err != nil {
		return err
	}
	if err := session.Start(ctx, name); err != nil {
		return err
	}
	if err := g.names.Remember(ctx, session.Device(), name); err != nil {
		// A forgotten name only loses the pre-fill.
		log.Warn().Err(err).Str("session_id", sessionID).Msg("remember player name")
	}
	return nil
}

func (g *GameService) Answer(ctx context.Context, sessionID string, choice int) (domain.AnswerResult, error) {
	session, err := g.lookup(sessionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return session.Answer(ctx, choice)
}

func (g *GameService) EndEarly(ctx context.Context, sessionID string) error {
	session, err := g.lookup(sessionID)
	if err != nil {
		return err
	}
	return session.EndEarly(ctx)
}

func (g *GameService) PlayAgain(_ context.Context, sessionID string) error {
	session, err := g.lookup(sessionID)
	if err != nil {
		return err
	}
	return session.PlayAgain()
}

func (g *GameService) Snapshot(sessionID string) (domain.SessionState, error) {
	session, err := g.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Snapshot(), nil
}

// Leaderboard returns the top n entries; n <= 0 returns the whole board.
func (g *GameService) Leaderboard(ctx context.Context, n int) []domain.LeaderboardEntry {
	return g.board.Top(ctx, n)
}

func (g *GameService) ClearLeaderboard(ctx context.Context) error {
	if err := g.board.Clear(ctx); err != nil {
		return err
	}
	log.Info().Msg("leaderboard cleared")
	return nil
}

// Questions exposes the bank size for progress displays.
func (g *GameService) Questions() int {
	return g.bank.Len()
}

// Close stops a session's countdown and forgets it.
func (g *GameService) Close(_ context.Context, sessionID string) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	g.sessions.Delete(sessionID)
	log.Debug().Str("session_id", sessionID).Msg("session closed")
}

func (g *GameService) lookup(sessionID string) (*Session, error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return session, nil
}
