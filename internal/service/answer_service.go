package service

import (
	"context"

	"exam-service/internal/models"
	"exam-service/internal/repository"
)

type AnswerService struct {
	Repo *repository.AnswerRepository
}

func NewAnswerService(repo *repository.AnswerRepository) *AnswerService {
	return &AnswerService{Repo: repo}
}

func (s *AnswerService) GetAnswersBySession(ctx context.Context, sessionID string) ([]models.AnswerRecord, error) {
	return s.Repo.FindBySession(ctx, sessionID)
}
