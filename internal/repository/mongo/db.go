package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// The client is configured with the registry from NewRegistry so decimal
// amounts round-trip as Decimal128.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).SetRegistry(NewRegistry())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		// If ping fails, disconnect the client before returning the error
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection used by the app.
// Failures are returned per collection name so startup can log them.
func EnsureIndexes(ctx context.Context, db *mongo.Database) map[string]error {
	failures := make(map[string]error)
	record := func(name string, err error) {
		if err != nil {
			failures[name] = err
		}
	}
	record(userCollectionName, EnsureUserIndexes(ctx, db.Collection(userCollectionName)))
	record(clientCollectionName, EnsureClientIndexes(ctx, db.Collection(clientCollectionName)))
	record(paymentCollectionName, EnsurePaymentIndexes(ctx, db.Collection(paymentCollectionName)))
	record(scheduleCollectionName, EnsureScheduleIndexes(ctx, db.Collection(scheduleCollectionName)))
	record(progressCollectionName, EnsureProgressIndexes(ctx, db.Collection(progressCollectionName)))
	record(statementCollectionName, EnsureStatementIndexes(ctx, db.Collection(statementCollectionName)))
	return failures
}
