package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/event-listing/internal/config"
	"github.com/iliyamo/event-listing/internal/database"
	"github.com/iliyamo/event-listing/internal/repository"
	"github.com/iliyamo/event-listing/internal/repository/memstore"
)

// stores is the persistence selected by STORE_DRIVER.  close releases the
// underlying connection.
type stores struct {
	users  repository.UserStore
	events repository.EventStore
	close  func()
}

// openStores connects to the configured backend.  When migrate is true the
// unique indexes (Mongo) or schema migrations (MySQL) are applied first.
func openStores(ctx context.Context, cfg config.Config, migrate bool, logger zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.OpenMongo(cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.MongoDB)
		if migrate {
			if err := database.EnsureMongoIndexes(ctx, db); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}
		}
		logger.Info().Str("database", cfg.MongoDB).Msg("connected to mongo")
		return &stores{
			users:  repository.NewMongoUserStore(db),
			events: repository.NewMongoEventStore(db),
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		if migrate {
			if err := database.MigrateMySQL(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info().Str("database", cfg.DBName).Msg("connected to mysql")
		return &stores{
			users:  repository.NewMySQLUserStore(db),
			events: repository.NewMySQLEventStore(db),
			close:  func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store, data is lost on exit")
		return &stores{users: memstore.NewUsers(), events: memstore.NewEvents(), close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
