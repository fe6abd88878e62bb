package db

import (
	"context"
	"fmt"
	"time"

	"helpnow/pkg/types"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a client pinned to the stable server API and returns the configured
// database. The caller disconnects the client when done.
func ConnectMongo(ctx context.Context, config *types.Config) (*mongo.Client, *mongo.Database, error) {

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	clientOptions := options.Client().
		ApplyURI(config.DatabaseURL).
		SetServerAPIOptions(serverAPI).
		SetMaxConnIdleTime(15 * time.Minute)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(config.DatabaseName), nil
}
