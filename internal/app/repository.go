package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/ssl-bot/internal/config"
	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	cacherepo "github.com/riskibarqy/ssl-bot/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/ssl-bot/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ssl-bot/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/ssl-bot/internal/platform/cache"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

func newWelcomeRepository(cfg config.Config, logger *logging.Logger) (welcome.Repository, func() error, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		logger.Warn("welcome toggles are kept in memory and reset on restart")
		return memory.NewWelcomeRepository(nil), func() error { return nil }, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected", "driver", cfg.DBDriver, "db_name", dbNameFromURL(cfg.DBURL))

	var repo welcome.Repository = sqlstore.NewWelcomeRepository(db)
	if cfg.CacheEnabled {
		repo = cacherepo.NewWelcomeRepository(repo, cache.NewStore[cacherepo.CachedToggle](cfg.CacheTTL))
	}
	return repo, db.Close, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := cfg.DBURL
	system := "sqlite"
	if cfg.DBDriver == config.DBDriverPostgres {
		dsn = normalizeDBURL(dsn, cfg.DBDisablePreparedBinaryResult)
		system = "postgresql"
	}

	db, err := otelsqlx.Open(cfg.DBDriver, dsn,
		otelsql.WithAttributes(attribute.String("db.system", system)),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database driver=%s: %w", cfg.DBDriver, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database driver=%s: %w", cfg.DBDriver, err)
	}
	return db, nil
}
