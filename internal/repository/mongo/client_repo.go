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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client name and user ID are required")
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a client owned by userID.
func (r *mongoClientRepository) GetByID(ctx context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	filter := bson.M{"_id": clientID, "userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// ListByUser returns the user's clients sorted by name.
func (r *mongoClientRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.ClientFilter) ([]domain.Client, error) {
	query := bson.M{"userId": userID}
	switch filter {
	case domain.FilterActive:
		query["isActive"] = true
	case domain.FilterPast:
		query["isActive"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update modifies an existing client. The owner is part of the filter and is
// never changed.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == primitive.NilObjectID {
		return errors.New("client ID is required for update")
	}

	filter := bson.M{"_id": client.ID, "userId": client.UserID}
	client.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":             client.Name,
			"startDate":        client.StartDate,
			"monthlyFee":       client.MonthlyFee,
			"startingWeightKg": client.StartingWeightKg,
			"isActive":         client.IsActive,
			"notes":            client.Notes,
			"updatedAt":        client.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive flips the client's active flag.
func (r *mongoClientRepository) SetActive(ctx context.Context, userID, clientID primitive.ObjectID, active bool) error {
	filter := bson.M{"_id": clientID, "userId": userID}
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a client, ensuring it belongs to the specified user.
// Dependent records are removed by the service.
func (r *mongoClientRepository) Delete(ctx context.Context, userID, clientID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": clientID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either missing or owned by another user
		return repository.ErrNotFound
	}
	return nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
