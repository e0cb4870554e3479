package repository

import (
	"context"
	"fmt"

	"contentlib/config"
	"contentlib/config/database"
	"contentlib/pkg/logger"
)

// Open builds the repository selected by cfg.StoreDriver, creating the
// table or index it needs. The returned func releases the connection.
func Open(ctx context.Context, cfg *config.Config) (ContentRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Sugar.Warn("Using in-memory content store; data is lost on restart")
		return NewMemoryRepository(), func() {}, nil

	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, nil, err
		}
		repo := NewMongoRepository(client.Database(cfg.MongoDB.Database))
		if err := repo.Migrate(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		logger.Sugar.Infof("Using MongoDB content store (database %s)", cfg.MongoDB.Database)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverPostgres:
		db, err := database.Connect(cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := NewPostgresRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
