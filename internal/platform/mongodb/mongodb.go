// Package mongodb constructs the document store client.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/filedepot/filedepot-api/internal/config"
)

// Connect creates a client for the configured MongoDB instance and returns
// the database handle used by the stores. The connection is established
// lazily; callers should verify reachability with Pinger and ready.Wait.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, *mongo.Database, error) {
	uri := fmt.Sprintf("mongodb://%s:%d", cfg.Host, cfg.Port)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb at %s: %w", uri, err)
	}

	return client, client.Database(cfg.Name), nil
}

// Pinger adapts a mongo client to the ready.Pinger interface.
type Pinger struct {
	Client *mongo.Client
}

// Ping probes the primary for liveness.
func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}
