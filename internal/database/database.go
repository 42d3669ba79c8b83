// Package database opens the configured store and hands back its repositories.
package database

import (
	"context"
	"fmt"
	"log"

	"blog/internal/config"
	"blog/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the store selected by cfg.StoreDriver, prepares its schema
// and returns the repositories plus a function releasing the connection.
func Open(ctx context.Context, cfg *config.Config) (repositories.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Println("Using in-memory store; data is lost on exit.")
		return repositories.NewMemoryStore(), func() {}, nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return repositories.Store{}, nil, err
		}
		if err := repositories.AutoMigrate(db); err != nil {
			closeGORM(db)
			return repositories.Store{}, nil, err
		}
		return repositories.NewGORMStore(db), func() { closeGORM(db) }, nil
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return repositories.Store{}, nil, err
		}
		db := client.Database(cfg.DBName)
		if err := repositories.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repositories.Store{}, nil, err
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}
		return repositories.NewMongoStore(db), cleanup, nil
	default:
		return repositories.Store{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// OpenGORM returns a connected GORM DB for the postgres or sqlite driver.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported GORM driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// ConnectMongo connects to uri and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func closeGORM(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
