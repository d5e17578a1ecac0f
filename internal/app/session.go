package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"airport-cyber-crisis/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Rules holds the timing and scoring constants of a run.
type Rules struct {
	TotalSeconds     int
	PenaltySeconds   int
	PointsPerCorrect int
	TickInterval     time.Duration
}

// MaxTotalSeconds bounds the countdown; time left always stays within [0, MaxTotalSeconds].
const MaxTotalSeconds = 30 * 60

// DefaultRules returns the standard 30-minute, 60-second-penalty game.
func DefaultRules() Rules {
	return Rules{
		TotalSeconds:     MaxTotalSeconds,
		PenaltySeconds:   60,
		PointsPerCorrect: 100,
		TickInterval:     time.Second,
	}
}

// Recorder receives the summary of every finished run.
type Recorder interface {
	Record(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error)
}

type endReason string

const (
	endCompleted endReason = "completed"
	endEarly     endReason = "ended_early"
	endExpired   endReason = "expired"
)

// SessionOption customizes a Session.
type SessionOption func(*Session)

func WithRules(rules Rules) SessionOption {
	return func(s *Session) { s.rules = rules }
}

// WithClock swaps the clock driving ticks and timestamps; tests pass a fake clock.
func WithClock(clock clockwork.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithDevice tags the session with the device it was opened from.
func WithDevice(device string) SessionOption {
	return func(s *Session) { s.device = device }
}

// Session is one play-through: Welcome -> Playing -> End -> Welcome.
type Session struct {
	id       string
	device   string
	bank     *QuestionBank
	recorder Recorder
	rules    Rules
	clock    clockwork.Clock

	mu          sync.Mutex
	stage       domain.Stage
	name        string
	position    int
	score       int
	countdown   *Countdown
	answers     []domain.AnswerRecord
	ticker      *Ticker
	closed      bool
	subscribers map[chan domain.SessionState]struct{}
}

// NewSession creates a session in the Welcome stage.
func NewSession(id string, bank *QuestionBank, recorder Recorder, opts ...SessionOption) *Session {
	s := &Session{
		id:          id,
		bank:        bank,
		recorder:    recorder,
		rules:       DefaultRules(),
		clock:       clockwork.NewRealClock(),
		stage:       domain.StageWelcome,
		subscribers: make(map[chan domain.SessionState]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	defaults := DefaultRules()
	if s.rules.TotalSeconds <= 0 || s.rules.TotalSeconds > MaxTotalSeconds {
		s.rules.TotalSeconds = defaults.TotalSeconds
	}
	if s.rules.PenaltySeconds < 0 {
		s.rules.PenaltySeconds = defaults.PenaltySeconds
	}
	if s.rules.TickInterval <= 0 {
		s.rules.TickInterval = defaults.TickInterval
	}
	s.countdown = NewCountdown(s.rules.TotalSeconds)
	s.answers = []domain.AnswerRecord{}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Device() string {
	return s.device
}

// Start begins a fresh run for name from Welcome. A run in progress is discarded without
// being recorded; a finished session must go through PlayAgain first.
func (s *Session) Start(_ context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: player name is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: session closed", domain.ErrState)
	}

	if s.stage == domain.StageEnd {
		return fmt.Errorf("%w: run finished, play again to start a new one", domain.ErrState)
	}
	if s.stage == domain.StagePlaying {
		log.Info().Str("session_id", s.id).Str("player", s.name).Msg("run restarted, discarding progress")
	}
	s.stopTickerLocked()
	s.resetLocked()
	s.name = trimmed
	s.stage = domain.StagePlaying
	s.ticker = StartTicker(s.clock, s.rules.TickInterval, s.tickFrom)

	log.Info().Str("session_id", s.id).Str("player", s.name).Int("time_left", s.countdown.Remaining()).Msg("run started")
	s.broadcastLocked()
	return nil
}

// Answer scores choice against the current question and advances to the next one.
// The time-left snapshot is taken before any penalty is applied.
func (s *Session) Answer(ctx context.Context, choice int) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != domain.StagePlaying {
		return domain.AnswerResult{}, fmt.Errorf("%w: cannot answer while %s", domain.ErrState, s.stage)
	}
	question, ok := s.bank.At(s.position)
	if !ok {
		return domain.AnswerResult{}, fmt.Errorf("%w: no question at position %d", domain.ErrState, s.position)
	}
	if choice < 0 || choice >= len(question.Choices) {
		return domain.AnswerResult{}, fmt.Errorf("%w: choice %d out of range", domain.ErrValidation, choice)
	}

	snapshot := s.countdown.Remaining()
	correct := choice == question.Correct
	result := domain.AnswerResult{
		QuestionID:   question.ID,
		Choice:       choice,
		CorrectIndex: question.Correct,
		Correct:      correct,
		Explanation:  question.Explanation,
	}

	expired := false
	if correct {
		result.Awarded = s.rules.PointsPerCorrect + snapshot/60
		s.score += result.Awarded
	} else {
		expired = s.countdown.ApplyPenalty(s.rules.PenaltySeconds)
		result.Penalty = snapshot - s.countdown.Remaining()
	}

	s.answers = append(s.answers, domain.AnswerRecord{
		QuestionID: question.ID,
		Choice:     choice,
		Correct:    correct,
		TimeLeft:   snapshot,
	})
	s.position++

	switch {
	case s.position >= s.bank.Len():
		s.finishLocked(ctx, endCompleted)
	case expired:
		s.finishLocked(ctx, endExpired)
	}

	result.TimeLeft = s.countdown.Remaining()
	result.Score = s.score
	result.Stage = s.stage
	s.broadcastLocked()
	return result, nil
}

// EndEarly stops the current run and records it as is.
func (s *Session) EndEarly(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != domain.StagePlaying {
		return fmt.Errorf("%w: cannot end a run while %s", domain.ErrState, s.stage)
	}
	s.finishLocked(ctx, endEarly)
	s.broadcastLocked()
	return nil
}

// Tick consumes one second of the countdown. It has no effect unless Playing.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(ctx)
}

// OnTimerExpired forces the run to End with whatever score it has.
func (s *Session) OnTimerExpired(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != domain.StagePlaying {
		return
	}
	s.finishLocked(ctx, endExpired)
	s.broadcastLocked()
}

// PlayAgain returns a finished session to the Welcome stage, keeping the player name.
func (s *Session) PlayAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.stage {
	case domain.StagePlaying:
		return fmt.Errorf("%w: run still in progress", domain.ErrState)
	case domain.StageWelcome:
		return nil
	}
	s.resetLocked()
	s.stage = domain.StageWelcome
	s.broadcastLocked()
	return nil
}

// Snapshot returns the current state for display.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every change, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// The channel is fresh and buffered, so this send never blocks.
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the countdown and releases subscribers. An unfinished run is not recorded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTickerLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) tickFrom(t *Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != t {
		return
	}
	s.tickLocked(context.Background())
}

func (s *Session) tickLocked(ctx context.Context) {
	if s.stage != domain.StagePlaying {
		return
	}
	if s.countdown.Tick() {
		s.finishLocked(ctx, endExpired)
	}
	s.broadcastLocked()
}

func (s *Session) resetLocked() {
	s.position = 0
	s.score = 0
	s.countdown.Reset()
	s.answers = []domain.AnswerRecord{}
}

func (s *Session) stopTickerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// finishLocked moves to End and hands exactly one summary to the recorder.
func (s *Session) finishLocked(ctx context.Context, reason endReason) {
	s.stopTickerLocked()
	s.stage = domain.StageEnd

	entry := domain.LeaderboardEntry{
		Name:     s.name,
		Score:    s.score,
		Correct:  s.correctLocked(),
		TimeLeft: s.countdown.Remaining(),
		Date:     s.clock.Now().UTC().Truncate(time.Millisecond),
	}
	log.Info().
		Str("session_id", s.id).
		Str("player", entry.Name).
		Str("reason", string(reason)).
		Int("score", entry.Score).
		Int("correct", entry.Correct).
		Int("time_left", entry.TimeLeft).
		Msg("run finished")

	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("session_id", s.id).Msg("record leaderboard entry")
	}
}

func (s *Session) correctLocked() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

func (s *Session) snapshotLocked() domain.SessionState {
	answers := make([]domain.AnswerRecord, len(s.answers))
	copy(answers, s.answers)

	state := domain.SessionState{
		SessionID: s.id,
		Name:      s.name,
		Stage:     s.stage,
		Position:  s.position,
		Total:     s.bank.Len(),
		TimeLeft:  s.countdown.Remaining(),
		Score:     s.score,
		Correct:   s.correctLocked(),
		Answers:   answers,
	}
	if s.stage == domain.StagePlaying {
		if q, ok := s.bank.At(s.position); ok {
			view := q.View(s.position + 1)
			state.Question = &view
		}
	}
	return state
}

func (s *Session) broadcastLocked() {
	state := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// Drop the stale snapshot so a slow reader never blocks the countdown.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
