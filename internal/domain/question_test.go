package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func validQuestion(id int) Question {
	return Question{
		ID:      id,
		Prompt:  "Which step first?",
		Choices: []string{"a", "b", "c", "d"},
		Correct: 2,
	}
}

func TestQuestionValidate(t *testing.T) {
	cases := map[string]func(q *Question){
		"three choices":    func(q *Question) { q.Choices = q.Choices[:3] },
		"negative correct": func(q *Question) { q.Correct = -1 },
		"correct too high": func(q *Question) { q.Correct = 4 },
		"blank choice":     func(q *Question) { q.Choices[1] = "  " },
		"blank prompt":     func(q *Question) { q.Prompt = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := validQuestion(1)
			mutate(&q)
			if err := q.Validate(); !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("expected ErrInvalidQuestion, got %v", err)
			}
		})
	}

	if err := validQuestion(1).Validate(); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}
}

func TestValidateBankRejectsDuplicatesAndEmpty(t *testing.T) {
	if err := ValidateBank(nil); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected empty bank error, got %v", err)
	}
	if err := ValidateBank([]Question{validQuestion(1), validQuestion(1)}); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if err := ValidateBank([]Question{validQuestion(1), validQuestion(2)}); err != nil {
		t.Fatalf("expected valid bank, got %v", err)
	}
}

func TestViewHidesAnswerAndCopiesChoices(t *testing.T) {
	q := validQuestion(7)
	view := q.View(3)
	view.Choices[0] = "changed"
	if q.Choices[0] != "a" {
		t.Fatalf("view must not alias question choices")
	}
	if view.Number != 3 || view.ID != 7 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestStageJSON(t *testing.T) {
	raw, err := json.Marshal(StagePlaying)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"playing"` {
		t.Fatalf("expected playing, got %s", raw)
	}
	var s Stage
	if err := json.Unmarshal([]byte(`"end"`), &s); err != nil || s != StageEnd {
		t.Fatalf("expected end stage, got %v (%v)", s, err)
	}
	if err := json.Unmarshal([]byte(`"lobby"`), &s); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}
