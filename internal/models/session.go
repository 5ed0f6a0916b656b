package models

import "time"

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Composition is the required question count per category for one session.
type Composition map[Category]int

// Total returns the number of questions the composition asks for.
func (c Composition) Total() int {
	n := 0
	for _, count := range c {
		n += count
	}
	return n
}

// ExamSession is the persisted shape of one exam attempt. The live state
// machine lives in the exam package; this document records its snapshots.
type ExamSession struct {
	ID                string        `bson:"_id,omitempty" json:"id"`
	UserID            string        `bson:"user_id" json:"user_id"`
	Status            SessionStatus `bson:"status" json:"status"`
	QuestionIDs       []string      `bson:"question_ids" json:"question_ids"`
	Composition       Composition   `bson:"composition" json:"composition"`
	TimeBudgetSec     int           `bson:"time_budget_seconds" json:"time_budget_seconds"`
	ScoreEarned       float64       `bson:"score_earned" json:"score_earned"`
	ScoreTotal        float64       `bson:"score_total" json:"score_total"`
	PassStatus        *bool         `bson:"pass_status,omitempty" json:"pass_status,omitempty"`
	QuestionsAnswered int           `bson:"questions_answered" json:"questions_answered"`
	// CategoryBreakdown is filled in at finalize/abandon and feeds the
	// weak-area report.
	CategoryBreakdown map[string]CategoryStat `bson:"category_breakdown,omitempty" json:"category_breakdown,omitempty"`
	StartedAt         time.Time               `bson:"started_at" json:"started_at"`
	EndedAt           *time.Time              `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}
