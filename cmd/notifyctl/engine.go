package main

import (
	"context"
	"fmt"

	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/database"
	"acc-notifications/internal/common/email"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/notification"
	"acc-notifications/internal/repository/postgres"
)

// deps holds the connections one command needs; close releases them.
type deps struct {
	engine *notification.Engine
	store  *postgres.CachedStore
	close  func()
}

func openDeps(ctx context.Context, cfg *config.Config, log logger.Logger) (*deps, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	// The catalog cache falls through to postgres when redis is down, so redis is not pinged.
	rdb := database.NewRedis(cfg.Database.Redis)

	sender, err := email.NewSender(ctx, cfg.Notifications.Email, log)
	if err != nil {
		pg.Close()
		rdb.Close()
		return nil, err
	}

	store := postgres.NewCachedStore(postgres.New(pg.GetDB(), log), rdb.GetClient(), cfg.Notifications.CatalogTTL(), log)
	return &deps{
		engine: notification.New(store, store, sender, log, notification.OptionsFromConfig(cfg.Notifications)),
		store:  store,
		close: func() {
			rdb.Close()
			pg.Close()
		},
	}, nil
}
