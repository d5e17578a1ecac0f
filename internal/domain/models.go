package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChoicesPerQuestion is the fixed number of options each scenario offers.
const ChoicesPerQuestion = 4

// Stage is the coarse lifecycle phase of a session.
type Stage int

const (
	StageWelcome Stage = iota
	StagePlaying
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StagePlaying:
		return "playing"
	case StageEnd:
		return "end"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "welcome":
		*s = StageWelcome
	case "playing":
		*s = StagePlaying
	case "end":
		*s = StageEnd
	default:
		return fmt.Errorf("unknown stage %q", raw)
	}
	return nil
}

// Question is one multiple-choice incident scenario. Immutable once loaded.
type Question struct {
	ID          int      `json:"id" yaml:"id"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	Choices     []string `json:"choices" yaml:"choices"`
	Correct     int      `json:"correct" yaml:"correct"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// AnswerRecord captures a single processed question. Never mutated after creation.
type AnswerRecord struct {
	QuestionID int  `json:"questionId"`
	Choice     int  `json:"choice"`
	Correct    bool `json:"correct"`
	TimeLeft   int  `json:"timeLeft"`
}

// AnswerResult summarizes the outcome of an answer for the presentation layer.
type AnswerResult struct {
	QuestionID   int    `json:"questionId"`
	Choice       int    `json:"choice"`
	CorrectIndex int    `json:"correctIndex"`
	Correct      bool   `json:"correct"`
	Awarded      int    `json:"awarded"`
	Penalty      int    `json:"penalty"`
	Explanation  string `json:"explanation"`
	TimeLeft     int    `json:"timeLeft"`
	Score        int    `json:"score"`
	Stage        Stage  `json:"stage"`
}

// QuestionView is the player-facing projection of a question; it never exposes the answer.
type QuestionView struct {
	ID      int      `json:"id"`
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// SessionState is a read-only snapshot of a session.
type SessionState struct {
	SessionID string         `json:"sessionId"`
	Name      string         `json:"name"`
	Stage     Stage          `json:"stage"`
	Position  int            `json:"position"`
	Total     int            `json:"total"`
	Question  *QuestionView  `json:"question,omitempty"`
	TimeLeft  int            `json:"timeLeft"`
	Score     int            `json:"score"`
	Correct   int            `json:"correct"`
	Answers   []AnswerRecord `json:"answers"`
}

// LeaderboardEntry is an immutable summary of one completed session.
type LeaderboardEntry struct {
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	Correct  int       `json:"correct"`
	TimeLeft int       `json:"timeLeft"`
	Date     time.Time `json:"date"`
}
