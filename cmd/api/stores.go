package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/api/handler"
	"github.com/carlot/inventory-api/internal/core/ports"
	"github.com/carlot/inventory-api/internal/infrastructure/db/memory"
	mongostore "github.com/carlot/inventory-api/internal/infrastructure/db/mongo"
	redisstore "github.com/carlot/inventory-api/internal/infrastructure/db/redis"
	sqlstore "github.com/carlot/inventory-api/internal/infrastructure/db/sql"
	"github.com/carlot/inventory-api/internal/pkg/config"
)

// stores bundles the repositories of the selected backend together with the
// readiness checks and the shutdown hooks that belong to it.
type stores struct {
	identities ports.IdentityRepository
	vehicles   ports.VehicleRepository
	cache      *redisstore.IdentityCache
	checks     []handler.DependencyCheck
	closers    []func(context.Context) error
}

func (s *stores) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "inventory-api",
		})
		if err != nil {
			return nil, err
		}
		identities := mongostore.NewIdentityRepository(db)
		vehicles := mongostore.NewVehicleRepository(db)
		if err := mongostore.EnsureIndexes(ctx, identities, vehicles); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		st.identities, st.vehicles = identities, vehicles
		st.checks = append(st.checks, handler.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongostore.Ping(ctx, client) },
		})
		st.closers = append(st.closers, client.Disconnect)
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb store ready")

	case config.StoreSQLite, config.StorePostgres:
		db, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.SQLDSN})
		if err != nil {
			return nil, err
		}
		st.identities = sqlstore.NewIdentityRepository(db)
		st.vehicles = sqlstore.NewVehicleRepository(db)
		st.checks = append(st.checks, handler.DependencyCheck{
			Name: cfg.Store.Driver,
			Ping: func(ctx context.Context) error { return sqlstore.Ping(ctx, db) },
		})
		st.closers = append(st.closers, func(context.Context) error { return sqlstore.Close(db) })
		log.Info().Str("driver", cfg.Store.Driver).Msg("sql store ready")

	case config.StoreMemory:
		st.identities = memory.NewIdentityRepository()
		st.vehicles = memory.NewVehicleRepository()
		log.Warn().Msg("memory store in use, data is lost on restart")

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			st.close(log)
			return nil, err
		}
		st.cache = redisstore.NewIdentityCache(client, cfg.Redis.IdentityTTL)
		st.checks = append(st.checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisstore.Ping(ctx, client) },
		})
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.IdentityTTL).Msg("identity cache enabled")
	}

	return st, nil
}
