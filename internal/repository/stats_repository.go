package repository

import (
	"context"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepository stores performance records keyed (user, question).
type StatsRepository struct {
	Col *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{Col: db.Collection("user_stats")}
}

// FindByUser returns the user's records keyed by question id, the shape the
// sampler and updater want.
func (r *StatsRepository) FindByUser(ctx context.Context, userID string) (map[string]models.PerformanceRecord, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := make(map[string]models.PerformanceRecord)
	for cur.Next(ctx) {
		var rec models.PerformanceRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		records[rec.QuestionID] = rec
	}
	return records, cur.Err()
}

// Upsert writes one record, creating it on first attempt.
func (r *StatsRepository) Upsert(ctx context.Context, rec *models.PerformanceRecord) error {
	filter := bson.M{"user_id": rec.UserID, "question_id": rec.QuestionID}
	update := bson.M{"$set": bson.M{
		"user_id":           rec.UserID,
		"question_id":       rec.QuestionID,
		"fail_count":        rec.FailCount,
		"success_count":     rec.SuccessCount,
		"last_attempted_at": rec.LastAttemptedAt,
		"last_correct_at":   rec.LastCorrectAt,
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
