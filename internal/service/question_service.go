package service

import (
	"context"
	"fmt"

	"exam-service/internal/models"
	"exam-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) ListQuestions(ctx context.Context, category models.Category) ([]models.Question, error) {
	if category != "" {
		return s.Repo.FindByCategory(ctx, category)
	}
	return s.Repo.FindAll(ctx)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

// CreateQuestion validates the bank invariants before anything is stored.
func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if err := question.Validate(); err != nil {
		return err
	}
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update bson.M) error {
	return s.Repo.Update(ctx, id, update)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// ImportQuestions ingests a batch: every question is validated up front and
// a single bad row rejects the whole batch, so a malformed question can
// never enter the pool.
func (s *QuestionService) ImportQuestions(ctx context.Context, questions []models.Question) (int, error) {
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		if err := questions[i].Validate(); err != nil {
			return 0, fmt.Errorf("import row %d: %w", i, err)
		}
	}
	return s.Repo.BulkUpsert(ctx, questions)
}

func (s *QuestionService) DeleteBySource(ctx context.Context, source string) (int64, error) {
	return s.Repo.DeleteBySource(ctx, source)
}

// BankCounts backs the dashboard: totals per category.
func (s *QuestionService) BankCounts(ctx context.Context) (map[string]int64, error) {
	return s.Repo.CountByCategory(ctx)
}

func (s *QuestionService) SubCategoryCounts(ctx context.Context, category models.Category) (map[string]int64, error) {
	return s.Repo.SubCategoryCounts(ctx, category)
}
