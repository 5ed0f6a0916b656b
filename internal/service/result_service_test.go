package service

import (
	"fmt"
	"testing"
	"time"

	"exam-service/internal/models"
)

func finishedSession(breakdown map[string]models.CategoryStat) models.ExamSession {
	return models.ExamSession{
		Status:            models.StatusCompleted,
		CategoryBreakdown: breakdown,
	}
}

func TestRankWeakAreasOrdering(t *testing.T) {
	sessions := []models.ExamSession{
		finishedSession(map[string]models.CategoryStat{
			"algebra":  {Total: 10, Correct: 2}, // lag 800
			"geometry": {Total: 10, Correct: 9}, // lag 100
		}),
		finishedSession(map[string]models.CategoryStat{
			"algebra": {Total: 10, Correct: 4}, // merged: 20 seen, 6 correct, lag 1400
			"reading": {Total: 4, Correct: 1},  // lag 300
		}),
	}

	report := rankWeakAreas(sessions)
	if len(report.WeakAreas) != 3 {
		t.Fatalf("Expected 3 ranked areas, got %d", len(report.WeakAreas))
	}

	top := report.WeakAreas[0]
	if top.SubCategory != "algebra" {
		t.Errorf("Expected algebra ranked weakest, got %s", top.SubCategory)
	}
	if top.Total != 20 || top.Correct != 6 {
		t.Errorf("Expected merged totals 20/6, got %d/%d", top.Total, top.Correct)
	}
	if top.AccuracyPercent != 30 {
		t.Errorf("Expected merged accuracy 30%%, got %v", top.AccuracyPercent)
	}
	if top.LagFactor != 1400 {
		t.Errorf("Expected lag factor 1400, got %v", top.LagFactor)
	}
	if report.WeakAreas[1].SubCategory != "reading" || report.WeakAreas[2].SubCategory != "geometry" {
		t.Errorf("Unexpected ordering: %v", report.WeakAreas)
	}
	if len(report.StrongAreas) != 0 {
		t.Errorf("Fewer areas than the cutoff should not produce a strong list, got %d", len(report.StrongAreas))
	}
}

func TestRankWeakAreasIgnoresInProgress(t *testing.T) {
	sessions := []models.ExamSession{
		{
			Status: models.StatusInProgress,
			CategoryBreakdown: map[string]models.CategoryStat{
				"algebra": {Total: 10, Correct: 0},
			},
		},
	}

	report := rankWeakAreas(sessions)
	if len(report.WeakAreas) != 0 {
		t.Errorf("In-progress sessions must not feed the analysis, got %v", report.WeakAreas)
	}
}

func TestRankWeakAreasSplitsTopAndBottom(t *testing.T) {
	breakdown := make(map[string]models.CategoryStat)
	for i := 0; i < 12; i++ {
		// Accuracy climbs with i, so sub-00 lags worst and sub-11 least.
		breakdown[fmt.Sprintf("sub-%02d", i)] = models.CategoryStat{Total: 12, Correct: i}
	}
	report := rankWeakAreas([]models.ExamSession{finishedSession(breakdown)})

	if len(report.WeakAreas) != weakAreaTopN || len(report.StrongAreas) != weakAreaTopN {
		t.Fatalf("Expected %d weak and %d strong, got %d/%d",
			weakAreaTopN, weakAreaTopN, len(report.WeakAreas), len(report.StrongAreas))
	}
	if report.WeakAreas[0].SubCategory != "sub-00" {
		t.Errorf("Expected sub-00 weakest, got %s", report.WeakAreas[0].SubCategory)
	}
	if report.StrongAreas[weakAreaTopN-1].SubCategory != "sub-11" {
		t.Errorf("Expected sub-11 strongest (last), got %s", report.StrongAreas[weakAreaTopN-1].SubCategory)
	}
}

func TestSummaryFromSnapshot(t *testing.T) {
	started := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	ended := started.Add(100 * time.Minute)
	pass := true
	// 3 correct, 1 wrong, 1 skipped: 3*1.0 - 0.25 = 2.75 of 5.
	stored := &models.ExamSession{
		ID:                "sess-1",
		UserID:            "user-1",
		Status:            models.StatusCompleted,
		QuestionIDs:       []string{"q1", "q2", "q3", "q4", "q5"},
		ScoreEarned:       2.75,
		ScoreTotal:        5,
		PassStatus:        &pass,
		QuestionsAnswered: 4,
		CategoryBreakdown: map[string]models.CategoryStat{
			"algebra": {Total: 3, Correct: 2},
			"reading": {Total: 2, Correct: 1},
		},
		StartedAt: started,
		EndedAt:   &ended,
	}

	summary := summaryFromSnapshot(stored)
	if summary.SessionID != "sess-1" || summary.Status != models.StatusCompleted {
		t.Errorf("Identity fields not carried over: %+v", summary)
	}
	if summary.Percentage != 55 {
		t.Errorf("Expected percentage 55, got %v", summary.Percentage)
	}
	if summary.QuestionsSkipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", summary.QuestionsSkipped)
	}
	if summary.CorrectCount != 3 {
		t.Errorf("Expected 3 correct from breakdown, got %d", summary.CorrectCount)
	}
	if summary.AccuracyPercent != 75 {
		t.Errorf("Expected 75%% accuracy over attempts, got %v", summary.AccuracyPercent)
	}
	if summary.PassStatus == nil || !*summary.PassStatus {
		t.Errorf("Expected pass status carried over")
	}
}
