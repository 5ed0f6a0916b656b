package models

import "time"

// AnswerRecord is one answered (or explicitly skipped) question within a
// session. ChosenOptionIdx is nil for a skip; IsCorrect is non-nil exactly
// when an option was chosen.
type AnswerRecord struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	SessionID        string    `bson:"session_id" json:"session_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	ChosenOptionIdx  *int      `bson:"chosen_option_idx,omitempty" json:"chosen_option_idx,omitempty"`
	IsCorrect        *bool     `bson:"is_correct,omitempty" json:"is_correct,omitempty"`
	PointsEarned     float64   `bson:"points_earned" json:"points_earned"`
	TimeSpentSeconds int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	AnsweredAt       time.Time `bson:"answered_at" json:"answered_at"`
}

// Attempted reports whether an option was actually chosen (a skip is not an
// attempt and leaves the performance record alone).
func (a *AnswerRecord) Attempted() bool {
	return a.ChosenOptionIdx != nil
}
