package exam

import (
	"errors"
	"testing"
	"time"

	"exam-service/internal/models"
	"exam-service/internal/selection"
)

var applyNow = time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func answered(sessionID, questionID string, correct bool) models.AnswerRecord {
	choice := 0
	if !correct {
		choice = 1
	}
	return models.AnswerRecord{
		SessionID:       sessionID,
		QuestionID:      questionID,
		ChosenOptionIdx: &choice,
		IsCorrect:       boolPtr(correct),
	}
}

func skipped(sessionID, questionID string) models.AnswerRecord {
	return models.AnswerRecord{SessionID: sessionID, QuestionID: questionID}
}

func TestApplyIncrementsCounts(t *testing.T) {
	updater := NewUpdater()
	records := []models.AnswerRecord{
		answered("s1", "q1", true),
		answered("s1", "q2", false),
	}

	updated, err := updater.Apply("user-1", "s1", records, nil, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("Expected 2 updated records, got %d", len(updated))
	}

	byQuestion := make(map[string]models.PerformanceRecord)
	for _, rec := range updated {
		byQuestion[rec.QuestionID] = rec
	}

	correct := byQuestion["q1"]
	if correct.SuccessCount != 1 || correct.FailCount != 0 {
		t.Errorf("Correct answer: expected success=1 fail=0, got %d/%d", correct.SuccessCount, correct.FailCount)
	}
	if correct.LastCorrectAt == nil || !correct.LastCorrectAt.Equal(applyNow) {
		t.Errorf("Expected last_correct_at %v, got %v", applyNow, correct.LastCorrectAt)
	}
	if correct.LastAttemptedAt == nil || !correct.LastAttemptedAt.Equal(applyNow) {
		t.Errorf("Expected last_attempted_at %v, got %v", applyNow, correct.LastAttemptedAt)
	}

	wrong := byQuestion["q2"]
	if wrong.FailCount != 1 || wrong.SuccessCount != 0 {
		t.Errorf("Wrong answer: expected fail=1 success=0, got %d/%d", wrong.FailCount, wrong.SuccessCount)
	}
	if wrong.LastCorrectAt != nil {
		t.Errorf("Wrong answer must not stamp last_correct_at, got %v", wrong.LastCorrectAt)
	}
}

func TestApplyBuildsOnExistingRecord(t *testing.T) {
	updater := NewUpdater()
	prior := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := map[string]models.PerformanceRecord{
		"q1": {UserID: "user-1", QuestionID: "q1", FailCount: 2, SuccessCount: 3, LastAttemptedAt: &prior},
	}

	updated, err := updater.Apply("user-1", "s1", []models.AnswerRecord{answered("s1", "q1", false)}, existing, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(updated))
	}
	rec := updated[0]
	if rec.FailCount != 3 {
		t.Errorf("Expected fail_count incremented to 3, got %d", rec.FailCount)
	}
	if rec.SuccessCount != 3 {
		t.Errorf("Expected success_count unchanged at 3, got %d", rec.SuccessCount)
	}
	if rec.LastAttemptedAt == nil || !rec.LastAttemptedAt.Equal(applyNow) {
		t.Errorf("Expected last_attempted_at moved to %v, got %v", applyNow, rec.LastAttemptedAt)
	}
}

// A skip is not evidence either way: the performance record stays untouched.
func TestSkipLeavesRecordUntouched(t *testing.T) {
	updater := NewUpdater()
	existing := map[string]models.PerformanceRecord{
		"q-skip": {UserID: "user-1", QuestionID: "q-skip", FailCount: 4, SuccessCount: 1},
	}

	updated, err := updater.Apply("user-1", "s1", []models.AnswerRecord{
		skipped("s1", "q-skip"),
		answered("s1", "q-wrong", false),
	}, existing, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(updated) != 1 {
		t.Fatalf("Expected only the attempted question to update, got %d records", len(updated))
	}
	if updated[0].QuestionID != "q-wrong" {
		t.Errorf("Expected update for q-wrong, got %s", updated[0].QuestionID)
	}
	if updated[0].FailCount != 1 {
		t.Errorf("Expected fail_count 1, got %d", updated[0].FailCount)
	}
}

func TestApplyIdempotentPerSession(t *testing.T) {
	updater := NewUpdater()
	records := []models.AnswerRecord{answered("s1", "q1", true)}

	first, err := updater.Apply("user-1", "s1", records, nil, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 record on first apply, got %d", len(first))
	}

	second, err := updater.Apply("user-1", "s1", records, nil, applyNow)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("Expected ErrAlreadyApplied, got %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Replayed session produced %d updates; double-counting", len(second))
	}

	// A different session for the same question still counts.
	third, err := updater.Apply("user-1", "s2", []models.AnswerRecord{answered("s2", "q1", true)}, nil, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(third) != 1 {
		t.Errorf("Expected a later session to apply, got %d records", len(third))
	}
}

func TestApplyPartialDuplicate(t *testing.T) {
	updater := NewUpdater()
	if _, err := updater.Apply("user-1", "s1", []models.AnswerRecord{answered("s1", "q1", true)}, nil, applyNow); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Replay includes the already-applied q1 plus a fresh q2.
	updated, err := updater.Apply("user-1", "s1", []models.AnswerRecord{
		answered("s1", "q1", true),
		answered("s1", "q2", false),
	}, nil, applyNow)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("Expected ErrAlreadyApplied, got %v", err)
	}
	if len(updated) != 1 || updated[0].QuestionID != "q2" {
		t.Errorf("Expected only the fresh record to apply, got %v", updated)
	}
}

// A record produced by the updater, persisted and re-fetched, must yield the
// same priority weight on the next sampling run for the same "now".
func TestPerformanceRecordPriorityRoundTrip(t *testing.T) {
	updater := NewUpdater()
	updated, err := updater.Apply("user-1", "s1", []models.AnswerRecord{answered("s1", "q1", false)}, nil, applyNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	question := models.Question{
		ID:               "q1",
		Category:         models.CategoryGAT,
		Text:             "q",
		Options:          []string{"a", "b"},
		CorrectAnswerIdx: 0,
	}

	produced := updated[0]
	weightBefore := selection.PriorityWeight(selection.PooledQuestion{Question: question, Stats: &produced}, applyNow)

	// Simulate a store round-trip: the persisted field values are all that
	// survive.
	refetched := models.PerformanceRecord{
		UserID:          produced.UserID,
		QuestionID:      produced.QuestionID,
		FailCount:       produced.FailCount,
		SuccessCount:    produced.SuccessCount,
		LastAttemptedAt: produced.LastAttemptedAt,
		LastCorrectAt:   produced.LastCorrectAt,
	}
	weightAfter := selection.PriorityWeight(selection.PooledQuestion{Question: question, Stats: &refetched}, applyNow)

	if weightBefore != weightAfter {
		t.Errorf("Priority weight changed across round-trip: %v vs %v", weightBefore, weightAfter)
	}
	if weightAfter != 2.0 {
		t.Errorf("Expected weight 2.0 (one fail, attempted now), got %v", weightAfter)
	}
}
