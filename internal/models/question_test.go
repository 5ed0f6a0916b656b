package models

import (
	"strings"
	"testing"
)

func validQuestion() Question {
	return Question{
		ID:               "q1",
		Category:         CategoryGAT,
		SubCategory:      "logic",
		Text:             "Which option is correct?",
		Options:          []string{"a", "b", "c", "d"},
		CorrectAnswerIdx: 2,
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr string
	}{
		{
			name:   "valid question",
			mutate: func(q *Question) {},
		},
		{
			name:   "subject category",
			mutate: func(q *Question) { q.Category = CategorySubject },
		},
		{
			name:   "minimum two options",
			mutate: func(q *Question) { q.Options = []string{"a", "b"}; q.CorrectAnswerIdx = 1 },
		},
		{
			name:    "unknown category",
			mutate:  func(q *Question) { q.Category = "math" },
			wantErr: "unknown category",
		},
		{
			name:    "empty text",
			mutate:  func(q *Question) { q.Text = "" },
			wantErr: "empty text",
		},
		{
			name:    "too few options",
			mutate:  func(q *Question) { q.Options = []string{"only"}; q.CorrectAnswerIdx = 0 },
			wantErr: "options",
		},
		{
			name: "too many options",
			mutate: func(q *Question) {
				q.Options = make([]string, MaxOptions+1)
				for i := range q.Options {
					q.Options[i] = "opt"
				}
			},
			wantErr: "options",
		},
		{
			name:    "correct index negative",
			mutate:  func(q *Question) { q.CorrectAnswerIdx = -1 },
			wantErr: "out of bounds",
		},
		{
			name:    "correct index past last option",
			mutate:  func(q *Question) { q.CorrectAnswerIdx = len(q.Options) },
			wantErr: "out of bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestCompositionTotal(t *testing.T) {
	comp := Composition{CategoryGAT: 70, CategorySubject: 30}
	if comp.Total() != 100 {
		t.Errorf("Expected total 100, got %d", comp.Total())
	}
	if (Composition{}).Total() != 0 {
		t.Errorf("Expected empty composition total 0")
	}
}
