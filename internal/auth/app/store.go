package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/mongo"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/sqlite"
)

const connectTimeout = 15 * time.Second

// openStore connects the configured driver and brings its schema up to date.
func openStore(cfg Config) (store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var (
		st  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		st, err = sqlite.NewStore(dsn)
	case DriverPostgres:
		st, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	case DriverMongo:
		st, err = mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s store: %w", cfg.DatabaseDriver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply %s migrations: %w", cfg.DatabaseDriver, err)
	}

	return st, nil
}
