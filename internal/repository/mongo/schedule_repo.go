package mongo

import (
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scheduleCollectionName = "workout_schedules"

type mongoScheduleRepository struct {
	collection *mongo.Collection
}

func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// CreateMany inserts one schedule row per selected weekday in a single call.
func (r *mongoScheduleRepository) CreateMany(ctx context.Context, schedules []*domain.WorkoutSchedule) ([]primitive.ObjectID, error) {
	if len(schedules) == 0 {
		return nil, errors.New("no schedules to insert")
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(schedules))
	for _, s := range schedules {
		if s.ClientID == primitive.NilObjectID || s.UserID == primitive.NilObjectID {
			return nil, errors.New("schedule client ID and user ID are required")
		}
		s.ID = primitive.NewObjectID()
		s.CreatedAt = now
		s.UpdatedAt = now
		docs = append(docs, s)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, raw := range result.InsertedIDs {
		id, ok := raw.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("unexpected inserted ID type %T", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *mongoScheduleRepository) GetByID(ctx context.Context, userID, scheduleID primitive.ObjectID) (*domain.WorkoutSchedule, error) {
	var schedule domain.WorkoutSchedule
	err := r.collection.FindOne(ctx, bson.M{"_id": scheduleID, "userId": userID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// ListByClient returns a client's weekly blocks ordered by day then start.
func (r *mongoScheduleRepository) ListByClient(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.WorkoutSchedule, error) {
	return r.find(ctx, bson.M{"userId": userID, "clientId": clientID})
}

func (r *mongoScheduleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSchedule, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoScheduleRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutSchedule, error) {
	// "HH:MM" strings sort lexically in time order
	findOptions := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	schedules := []domain.WorkoutSchedule{}
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Update rewrites the time block of an existing schedule.
func (r *mongoScheduleRepository) Update(ctx context.Context, schedule *domain.WorkoutSchedule) error {
	if schedule.ID == primitive.NilObjectID {
		return errors.New("schedule ID is required for update")
	}

	schedule.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": schedule.ID, "userId": schedule.UserID}
	update := bson.M{
		"$set": bson.M{
			"dayOfWeek": schedule.DayOfWeek,
			"startTime": schedule.StartTime,
			"endTime":   schedule.EndTime,
			"location":  schedule.Location,
			"updatedAt": schedule.UpdatedAt,
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

func (r *mongoScheduleRepository) Delete(ctx context.Context, userID, scheduleID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": scheduleID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoScheduleRepository) DeleteByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
