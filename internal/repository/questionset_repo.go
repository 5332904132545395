package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quizzone/internal/model"
)

// QuestionSetRepo handles MongoDB operations for question sets. GetByID
// returns (nil, nil) when the set does not exist.
type QuestionSetRepo interface {
	Create(ctx context.Context, qs *model.QuestionSet) (string, error)
	GetByID(ctx context.Context, id string) (*model.QuestionSet, error)
	List(ctx context.Context) ([]*model.QuestionSet, error)
	Delete(ctx context.Context, id string) error
}

type questionSetRepo struct {
	collection *mongo.Collection
}

// NewQuestionSetRepo creates a new question set repository.
func NewQuestionSetRepo(db *mongo.Database) QuestionSetRepo {
	return &questionSetRepo{
		collection: db.Collection("question_sets"),
	}
}

func (r *questionSetRepo) Create(ctx context.Context, qs *model.QuestionSet) (string, error) {
	qs.CreatedAt = time.Now()
	qs.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, qs)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *questionSetRepo) GetByID(ctx context.Context, id string) (*model.QuestionSet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var qs model.QuestionSet
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&qs)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	qs.ID = id
	return &qs, nil
}

func (r *questionSetRepo) List(ctx context.Context) ([]*model.QuestionSet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sets []*model.QuestionSet
	if err := cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *questionSetRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
