package main

import (
	"context"
	"fmt"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/config"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/persistence"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStore connects the configured snapshot backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (persistence.KeyValueStore, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		return persistence.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		db, err := persistence.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return persistence.NewMongoStore(db), func() { _ = db.Client().Disconnect(context.Background()) }, nil

	case config.BackendSQLite:
		store, err := persistence.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.RunMigrations(); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		logger.Info("opened sqlite snapshot store", zap.String("path", cfg.SQLitePath))
		return store, func() { _ = store.Close() }, nil

	default:
		logger.Warn("using in-memory snapshot store; cart and wishlist do not survive a restart")
		return persistence.NewMemoryStore(), func() {}, nil
	}
}
