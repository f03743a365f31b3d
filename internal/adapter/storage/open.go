package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rl1809/production-records/internal/config"
	"github.com/rl1809/production-records/internal/port"
)

// Open connects the backend selected by cfg.Driver and prepares its schema.
// The caller owns the returned repository and must Close it.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (port.RecordRepository, error) {
	logger = logger.With(zap.String("driver", cfg.Driver), zap.String("collection", cfg.Collection))

	switch cfg.Driver {
	case config.DriverFirestore:
		client, err := NewFirestoreClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to firestore")
		return NewFirestoreAdapter(client, cfg.Collection), nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		adapter := NewMongoAdapter(client, cfg.Mongo.Database, cfg.Collection)
		if err := adapter.EnsureIndexes(ctx); err != nil {
			adapter.Close()
			return nil, err
		}
		logger.Info("connected to mongo")
		return adapter, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		logger.Info("connected to redis")
		return NewRedisAdapter(rdb, cfg.Collection), nil

	case config.DriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping mysql: %w", err)
		}
		adapter, err := NewMySQLAdapter(db, cfg.Collection)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("connected to mysql")
		return adapter, nil

	case config.DriverPostgres:
		db, err := OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		adapter, err := NewPostgresAdapter(db, cfg.Collection)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
		if err := adapter.Migrate(ctx); err != nil {
			adapter.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		return adapter, nil

	case config.DriverBadger:
		db, err := OpenBadger(cfg.Badger.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("opened badger", zap.String("path", cfg.Badger.Path), zap.Bool("in_memory", cfg.Badger.Path == ""))
		return NewBadgerAdapter(db, cfg.Collection), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
