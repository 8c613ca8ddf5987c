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

const paymentCollectionName = "payments"

// mongoPaymentRepository implements repository.PaymentRepository
type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new payment repository.
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection(paymentCollectionName),
	}
}

// Create inserts a new payment. Amount and cycle attribution are validated by
// the service before this is called.
func (r *mongoPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	if payment.ClientID == primitive.NilObjectID || payment.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("payment client ID and user ID are required")
	}

	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a payment owned by userID.
func (r *mongoPaymentRepository) GetByID(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": paymentID, "userId": userID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListByClient returns a client's payments, newest first.
func (r *mongoPaymentRepository) ListByClient(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{"userId": userID, "clientId": clientID})
}

// ListByUser returns every payment recorded by a user, newest first.
func (r *mongoPaymentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoPaymentRepository) find(ctx context.Context, filter bson.M) ([]domain.Payment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "paidOn", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []domain.Payment{}
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes a single payment.
func (r *mongoPaymentRepository) Delete(ctx context.Context, userID, paymentID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": paymentID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByClient removes all payments of a client and reports how many went.
func (r *mongoPaymentRepository) DeleteByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsurePaymentIndexes creates necessary indexes for the payments collection.
func EnsurePaymentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "paidOn", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "paidOn", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
