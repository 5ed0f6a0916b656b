package models

import "time"

// CategoryStat is one sub-category row of a session's breakdown.
type CategoryStat struct {
	Total   int `bson:"total" json:"total"`
	Correct int `bson:"correct" json:"correct"`
}

// SessionSummary is the result of a finished (or running) session.
type SessionSummary struct {
	SessionID         string                  `bson:"session_id" json:"session_id"`
	UserID            string                  `bson:"user_id" json:"user_id"`
	Status            SessionStatus           `bson:"status" json:"status"`
	ScoreEarned       float64                 `bson:"score_earned" json:"score_earned"`
	ScoreTotal        float64                 `bson:"score_total" json:"score_total"`
	Percentage        float64                 `bson:"percentage" json:"percentage"`
	PassStatus        *bool                   `bson:"pass_status,omitempty" json:"pass_status,omitempty"`
	PassThreshold     float64                 `bson:"pass_threshold" json:"pass_threshold"`
	QuestionsAnswered int                     `bson:"questions_answered" json:"questions_answered"`
	QuestionsSkipped  int                     `bson:"questions_skipped" json:"questions_skipped"`
	CorrectCount      int                     `bson:"correct_count" json:"correct_count"`
	AccuracyPercent   float64                 `bson:"accuracy_percent" json:"accuracy_percent"`
	CategoryBreakdown map[string]CategoryStat `bson:"category_breakdown" json:"category_breakdown"`
	StartedAt         time.Time               `bson:"started_at" json:"started_at"`
	EndedAt           *time.Time              `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

// WeakArea ranks one sub-category by how badly it lags. LagFactor weights
// the miss rate by how often the sub-category appeared, so a frequent weak
// topic outranks a rare one.
type WeakArea struct {
	SubCategory     string  `json:"sub_category"`
	Total           int     `json:"total"`
	Correct         int     `json:"correct"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	LagFactor       float64 `json:"lag_factor"`
}

// WeakAreaReport is the lag analysis across a user's session history.
type WeakAreaReport struct {
	WeakAreas   []WeakArea `json:"weak_areas"`
	StrongAreas []WeakArea `json:"strong_areas"`
}
