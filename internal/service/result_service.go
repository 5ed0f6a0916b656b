package service

import (
	"context"
	"sort"

	"exam-service/internal/models"
	"exam-service/internal/repository"
)

const weakAreaTopN = 5

type ResultService struct {
	Sessions *repository.SessionRepository
}

func NewResultService(sessions *repository.SessionRepository) *ResultService {
	return &ResultService{Sessions: sessions}
}

// GetSessionsByUser returns a user's exam history, most recent first.
func (s *ResultService) GetSessionsByUser(ctx context.Context, userID string, limit int64) ([]models.ExamSession, error) {
	return s.Sessions.FindByUser(ctx, userID, limit)
}

// WeakAreas runs the lag analysis over a user's finished sessions:
// sub-categories are ranked by (100 - accuracy) * frequency, so a topic the
// user keeps seeing and keeps missing outranks a rare slip.
func (s *ResultService) WeakAreas(ctx context.Context, userID string) (*models.WeakAreaReport, error) {
	sessions, err := s.Sessions.FindByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return rankWeakAreas(sessions), nil
}

func rankWeakAreas(sessions []models.ExamSession) *models.WeakAreaReport {
	merged := make(map[string]models.CategoryStat)
	for _, sess := range sessions {
		if sess.Status == models.StatusInProgress {
			continue
		}
		for sub, stat := range sess.CategoryBreakdown {
			m := merged[sub]
			m.Total += stat.Total
			m.Correct += stat.Correct
			merged[sub] = m
		}
	}

	areas := make([]models.WeakArea, 0, len(merged))
	for sub, stat := range merged {
		if stat.Total == 0 {
			continue
		}
		accuracy := float64(stat.Correct) / float64(stat.Total) * 100
		areas = append(areas, models.WeakArea{
			SubCategory:     sub,
			Total:           stat.Total,
			Correct:         stat.Correct,
			AccuracyPercent: accuracy,
			LagFactor:       (100 - accuracy) * float64(stat.Total),
		})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].LagFactor != areas[j].LagFactor {
			return areas[i].LagFactor > areas[j].LagFactor
		}
		return areas[i].SubCategory < areas[j].SubCategory
	})

	report := &models.WeakAreaReport{}
	if len(areas) <= weakAreaTopN {
		report.WeakAreas = areas
		return report
	}
	report.WeakAreas = areas[:weakAreaTopN]
	report.StrongAreas = areas[len(areas)-weakAreaTopN:]
	return report
}
