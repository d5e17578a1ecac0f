package app

import (
	"context"
	"fmt"

	"airport-cyber-crisis/internal/domain"
)

// QuestionLoader fetches the scenario list from a backing source (built-in data, YAML file).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionBank is the immutable, ordered set of scenarios for every run.
type QuestionBank struct {
	questions []domain.Question
}

// NewQuestionBank loads questions once and validates them.
func NewQuestionBank(ctx context.Context, loader QuestionLoader) (*QuestionBank, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return NewQuestionBankFrom(questions)
}

// NewQuestionBankFrom validates and copies the given questions.
func NewQuestionBankFrom(questions []domain.Question) (*QuestionBank, error) {
	if err := domain.ValidateBank(questions); err != nil {
		return nil, err
	}
	bank := &QuestionBank{questions: make([]domain.Question, len(questions))}
	for i, q := range questions {
		bank.questions[i] = cloneQuestion(q)
	}
	return bank, nil
}

func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// At returns a copy of the question at position i.
func (b *QuestionBank) At(i int) (domain.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return domain.Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

// All returns a copy of the whole bank in order.
func (b *QuestionBank) All() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	choices := make([]string, len(q.Choices))
	copy(choices, q.Choices)
	q.Choices = choices
	return q
}
