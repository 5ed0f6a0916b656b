package repository

import (
	"context"
	"fmt"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bulkChunkSize = 200

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]models.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *QuestionRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Question, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *QuestionRepository) FindBySubCategory(ctx context.Context, category models.Category, subCategory string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"category": category, "sub_category": subCategory})
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteBySource removes every question imported from the given provenance
// label (e.g. one site's whole batch).
func (r *QuestionRepository) DeleteBySource(ctx context.Context, source string) (int64, error) {
	res, err := r.Col.DeleteMany(ctx, bson.M{"source": source})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// BulkUpsert writes an import batch in chunks, deduplicating by id within
// the batch so a chunk never carries the same key twice.
func (r *QuestionRepository) BulkUpsert(ctx context.Context, questions []models.Question) (int, error) {
	byID := make(map[string]models.Question, len(questions))
	order := make([]string, 0, len(questions))
	for _, q := range questions {
		if _, seen := byID[q.ID]; !seen {
			order = append(order, q.ID)
		}
		byID[q.ID] = q
	}

	written := 0
	for start := 0; start < len(order); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(order) {
			end = len(order)
		}
		chunk := make([]mongo.WriteModel, 0, end-start)
		for _, id := range order[start:end] {
			q := byID[id]
			chunk = append(chunk, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": q.ID}).
				SetReplacement(q).
				SetUpsert(true))
		}
		res, err := r.Col.BulkWrite(ctx, chunk, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return written, fmt.Errorf("bulk upsert chunk %d: %w", start/bulkChunkSize+1, err)
		}
		written += int(res.UpsertedCount + res.ModifiedCount + res.MatchedCount)
	}
	return written, nil
}

// CountByCategory returns question counts keyed by category, plus a "total".
func (r *QuestionRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{"total": 0}
	for _, cat := range models.CategoryOrder {
		n, err := r.Col.CountDocuments(ctx, bson.M{"category": cat})
		if err != nil {
			return nil, err
		}
		counts[string(cat)] = n
		counts["total"] += n
	}
	return counts, nil
}

// SubCategoryCounts aggregates question counts per sub-category, optionally
// narrowed to one category.
func (r *QuestionRepository) SubCategoryCounts(ctx context.Context, category models.Category) (map[string]int64, error) {
	match := bson.M{}
	if category != "" {
		match["category"] = category
	}
	cur, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$sub_category", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.ID == "" {
			row.ID = "(blank)"
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}
