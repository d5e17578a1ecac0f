package file

import (
	"context"
	"fmt"
	"os"

	"airport-cyber-crisis/internal/domain"
	"gopkg.in/yaml.v3"
)

// QuestionLoader reads a scenario bank from a YAML document:
//
//	questions:
//	  - id: 1
//	    prompt: ...
//	    choices: [a, b, c, d]
//	    correct: 2
//	    explanation: ...
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

type questionFile struct {
	Questions []domain.Question `yaml:"questions"`
}

func (l *QuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var doc questionFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", l.path, err)
	}
	return doc.Questions, nil
}
