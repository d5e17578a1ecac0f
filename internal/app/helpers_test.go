package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/domain"
	"airport-cyber-crisis/internal/infra/memory"
	"github.com/jonboulle/clockwork"
)

var testEpoch = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

type recordingBoard struct {
	mu      sync.Mutex
	entries []domain.LeaderboardEntry
}

func (r *recordingBoard) Record(_ context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return append([]domain.LeaderboardEntry(nil), r.entries...), nil
}

func (r *recordingBoard) recorded() []domain.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LeaderboardEntry(nil), r.entries...)
}

func newTestBank(t *testing.T) *app.QuestionBank {
	t.Helper()
	bank, err := app.NewQuestionBankFrom(memory.AirportScenarios())
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return bank
}

func newTestSession(t *testing.T) (*app.Session, *recordingBoard, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testEpoch)
	board := &recordingBoard{}
	session := app.NewSession("s-1", newTestBank(t), board, app.WithClock(clock))
	t.Cleanup(session.Close)
	return session, board, clock
}

func waitForState(t *testing.T, ch <-chan domain.SessionState, match func(domain.SessionState) bool) domain.SessionState {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case state, ok := <-ch:
			if !ok {
				t.Fatalf("subscription closed before expected state")
			}
			if match(state) {
				return state
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state")
		}
	}
}
