package repository

import (
	"context"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.ExamSession, error) {
	var session models.ExamSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

// Save replaces the persisted snapshot with the session's current state.
func (r *SessionRepository) Save(ctx context.Context, session *models.ExamSession) error {
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, options.Replace().SetUpsert(true))
	return err
}

// FindByUser lists a user's sessions, most recent first.
func (r *SessionRepository) FindByUser(ctx context.Context, userID string, limit int64) ([]models.ExamSession, error) {
	opts := options.Find().SetSort(bson.M{"started_at": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.ExamSession
	for cur.Next(ctx) {
		var s models.ExamSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, cur.Err()
}
