package db

import (
	"context"
	"fmt"

	"github.com/AbdulWasayUl/go-weather-logger/internal/config"
	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/jonboulle/clockwork"
)

const (
	// TimestampLayout is the local, second-precision format stored with each record.
	// It sorts lexicographically in chronological order.
	TimestampLayout = "2006-01-02 15:04:05"

	DefaultHistoryLimit = 10

	logsTable = "weather_logs"
)

// Store owns the weather log. Records are append-only; the only removal is Clear.
type Store interface {
	// Initialize makes sure the schema exists. Safe to call on every start.
	Initialize(ctx context.Context) error
	// Append inserts rec (its ID is ignored) and returns the assigned id.
	// An empty Timestamp is filled in from the store's clock.
	Append(ctx context.Context, rec models.WeatherRecord) (int64, error)
	// History returns records newest first. An empty city means every city.
	// A non-positive limit falls back to DefaultHistoryLimit.
	History(ctx context.Context, city string, limit int) ([]models.WeatherRecord, error)
	// Aggregate returns nil when no record matches city exactly.
	Aggregate(ctx context.Context, city string) (*models.CityStats, error)
	// Clear deletes every record. Ids are not reused afterwards.
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open builds the store selected by cfg.StoreDriver and initializes it.
// Any error here is an init failure and should abort startup.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var store Store
	switch cfg.StoreDriver {
	case config.DriverSQLite, "":
		store = NewSQLiteStore(cfg.DBPath, nil)
	case config.DriverMongo:
		client, err := ConnectMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, initErr(err)
		}
		store = NewMongoStore(client, cfg.MongoDBName, nil)
	default:
		return nil, initErr(fmt.Errorf("unknown store driver %q", cfg.StoreDriver))
	}

	if err := store.Initialize(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	logger.Info("Store initialized (driver=%s)", cfg.StoreDriver)
	return store, nil
}

func clockOrReal(c clockwork.Clock) clockwork.Clock {
	if c == nil {
		return clockwork.NewRealClock()
	}
	return c
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}
