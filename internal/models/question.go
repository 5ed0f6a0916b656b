package models

import "fmt"

// Category is the top-level question category. The exam composition is
// expressed as a count per category (e.g. 70 GAT + 30 subject).
type Category string

const (
	CategoryGAT     Category = "gat"
	CategorySubject Category = "subject"
)

// CategoryOrder is the fixed order in which category blocks appear in a
// generated exam: the GAT block comes first, the subject block second.
var CategoryOrder = []Category{CategoryGAT, CategorySubject}

const (
	MinOptions = 2
	MaxOptions = 10
)

type Question struct {
	ID               string   `bson:"_id,omitempty" json:"id"`
	Category         Category `bson:"category" json:"category"`
	SubCategory      string   `bson:"sub_category" json:"sub_category"`
	Text             string   `bson:"text" json:"text"`
	Options          []string `bson:"options" json:"options"`
	CorrectAnswerIdx int      `bson:"correct_answer_idx" json:"correct_answer_idx"`
	Explanation      string   `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Source           string   `bson:"source,omitempty" json:"source,omitempty"`
}

// Validate enforces the question-bank integrity invariants: 2-10 options and
// a correct index inside the option bounds. Called at ingestion time and
// again when questions are read back; a stored violation is a data-integrity
// error, never coerced.
func (q *Question) Validate() error {
	if q.Category != CategoryGAT && q.Category != CategorySubject {
		return fmt.Errorf("question %s: unknown category %q", q.ID, q.Category)
	}
	if q.Text == "" {
		return fmt.Errorf("question %s: empty text", q.ID)
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fmt.Errorf("question %s: %d options, want %d-%d", q.ID, len(q.Options), MinOptions, MaxOptions)
	}
	if q.CorrectAnswerIdx < 0 || q.CorrectAnswerIdx >= len(q.Options) {
		return fmt.Errorf("question %s: correct_answer_idx %d out of bounds for %d options",
			q.ID, q.CorrectAnswerIdx, len(q.Options))
	}
	return nil
}
