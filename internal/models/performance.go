package models

import "time"

// PerformanceRecord tracks one user's history with one question. Created
// lazily on first attempt, incremented on every later one; skipped questions
// never touch it.
type PerformanceRecord struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	UserID          string     `bson:"user_id" json:"user_id"`
	QuestionID      string     `bson:"question_id" json:"question_id"`
	FailCount       int        `bson:"fail_count" json:"fail_count"`
	SuccessCount    int        `bson:"success_count" json:"success_count"`
	LastAttemptedAt *time.Time `bson:"last_attempted_at,omitempty" json:"last_attempted_at,omitempty"`
	LastCorrectAt   *time.Time `bson:"last_correct_at,omitempty" json:"last_correct_at,omitempty"`
}
