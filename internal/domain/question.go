package domain

import (
	"fmt"
	"strings"
)

// Validate checks that a question has exactly four choices and a valid answer index.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %d has no prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Choices) != ChoicesPerQuestion {
		return fmt.Errorf("%w: question %d has %d choices, want %d", ErrInvalidQuestion, q.ID, len(q.Choices), ChoicesPerQuestion)
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: question %d choice %d is empty", ErrInvalidQuestion, q.ID, i)
		}
	}
	if q.Correct < 0 || q.Correct >= len(q.Choices) {
		return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuestion, q.ID, q.Correct)
	}
	return nil
}

// ValidateBank checks every question and rejects empty banks or duplicate ids.
func ValidateBank(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: question bank is empty", ErrInvalidQuestion)
	}
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// View projects the question for display at the given 1-based number.
func (q Question) View(number int) QuestionView {
	choices := make([]string, len(q.Choices))
	copy(choices, q.Choices)
	return QuestionView{
		ID:      q.ID,
		Number:  number,
		Prompt:  q.Prompt,
		Choices: choices,
	}
}
