package repository

import (
	"context"
	"fmt"

	"exam-service/internal/models"
	"exam-service/internal/selection"
)

// PoolFetcher materializes the eligible question pool for a user: every
// question annotated with that user's performance record, when one exists.
type PoolFetcher struct {
	Questions *QuestionRepository
	Stats     *StatsRepository
}

func NewPoolFetcher(questions *QuestionRepository, stats *StatsRepository) *PoolFetcher {
	return &PoolFetcher{Questions: questions, Stats: stats}
}

// FetchPool loads questions (optionally narrowed to one category) and joins
// in the user's stats. A stored question violating the bank invariants is a
// data-integrity error and aborts the fetch; it is never coerced into the
// pool.
func (f *PoolFetcher) FetchPool(ctx context.Context, userID string, category models.Category) ([]selection.PooledQuestion, error) {
	var questions []models.Question
	var err error
	if category != "" {
		questions, err = f.Questions.FindByCategory(ctx, category)
	} else {
		questions, err = f.Questions.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	stats, err := f.Stats.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user stats: %w", err)
	}

	pool := make([]selection.PooledQuestion, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("data integrity: %w", err)
		}
		pq := selection.PooledQuestion{Question: q}
		if rec, ok := stats[q.ID]; ok {
			recCopy := rec
			pq.Stats = &recCopy
		}
		pool = append(pool, pq)
	}
	return pool, nil
}
