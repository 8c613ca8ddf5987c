package mongo

import (
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const statementCollectionName = "statements"

// mongoStatementRepository implements repository.StatementRepository
type mongoStatementRepository struct {
	collection *mongo.Collection
}

// NewMongoStatementRepository creates a repository for statement metadata.
func NewMongoStatementRepository(db *mongo.Database) repository.StatementRepository {
	return &mongoStatementRepository{
		collection: db.Collection(statementCollectionName),
	}
}

// Create inserts metadata for a statement that was already written to storage.
func (r *mongoStatementRepository) Create(ctx context.Context, statement *domain.Statement) (primitive.ObjectID, error) {
	if statement.UserID == primitive.NilObjectID || statement.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("statement user ID and object key are required")
	}

	statement.ID = primitive.NewObjectID()
	statement.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, statement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListByUser returns statements newest first.
func (r *mongoStatementRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Statement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	statements := []domain.Statement{}
	if err = cursor.All(ctx, &statements); err != nil {
		return nil, err
	}
	return statements, nil
}

func EnsureStatementIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
