package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/config"
)

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (KeyValueStore, error) {
	var (
		store KeyValueStore
		err   error
	)

	switch cfg.Backend {
	case "memory":
		store = NewMemoryStore(0)
	case "sqlite":
		store, err = NewSQLiteStore(ctx, cfg.SQLite.Path)
	case "postgres":
		store, err = NewPostgresStore(ctx, cfg.Postgres.DSN)
	case "mongo":
		client, cerr := ConnectMongo(ctx, cfg.Mongo.URI)
		if cerr != nil {
			return nil, cerr
		}
		store = &MongoCollection{Collection: client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)}
	case "redis":
		client, cerr := NewRedisClient(ctx, cfg.Redis)
		if cerr != nil {
			return nil, cerr
		}
		store = NewRedisStore(client, cfg.Redis.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"backend": cfg.Backend, "key": cfg.Key}).Info("Storage opened")
	return store, nil
}
