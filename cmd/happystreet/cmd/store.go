package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sahil-chaple/happy-street-godhani/internal/config"
	"github.com/sahil-chaple/happy-street-godhani/internal/db"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository/memory"
)

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		store, err := repository.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")
		return store, nil
	case config.DriverOxiDB:
		pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, db.Options{Size: cfg.OxiDBPoolSize, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect oxidb: %w", err)
		}
		logger.Info().
			Str("host", cfg.OxiDBHost).
			Int("port", cfg.OxiDBPort).
			Int("pool_size", cfg.OxiDBPoolSize).
			Msg("connected to OxiDB")
		return repository.NewOxiStore(pool), nil
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
