// Command api serves the vehicle inventory HTTP API.
//
// Startup: logger, configuration, store backend, optional identity cache,
// seed data, router. SIGINT and SIGTERM trigger a graceful shutdown.
//
// @title                       Vehicle Inventory API
// @version                     1.0
// @description                 Vehicle inventory with role-gated identity management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/api"
	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/ports"
	"github.com/carlot/inventory-api/internal/core/service"
	"github.com/carlot/inventory-api/internal/pkg/config"
	"github.com/carlot/inventory-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "inventory-api",
		Version: version,
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("configuration loaded")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// --- Security primitives ---
	authCfg := auth.Config{
		SigningKey:      []byte(cfg.Auth.JWTSecret),
		Issuer:          cfg.Auth.Issuer,
		TokenTTLDefault: cfg.Auth.TokenTTL,
		HashScheme:      auth.HashScheme(cfg.Auth.HashScheme),
		BcryptCost:      cfg.Auth.BcryptCost,
	}
	hasher, err := auth.NewHasher(authCfg)
	must(log, err, "init password hasher")
	tokens, err := auth.NewTokenService(authCfg)
	must(log, err, "init token service")

	// --- Storage ---
	st, err := openStores(startupCtx, cfg, log)
	must(log, err, "open store")
	defer st.close(log)

	var cache ports.IdentityCache
	if st.cache != nil {
		cache = st.cache
	}

	if cfg.Seed.Enabled {
		err := service.Seed(startupCtx, st.identities, st.vehicles, hasher, service.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminEmail:    cfg.Seed.AdminEmail,
			Vehicles:      cfg.Seed.Vehicles,
		}, log)
		must(log, err, "seed data")
	}

	// --- Services ---
	authService := service.NewAuthService(st.identities, hasher, tokens, cache, log)
	userService := service.NewUserService(st.identities, hasher, cache, log)
	vehicleService := service.NewVehicleService(st.vehicles, log)

	e := api.NewRouter(api.Dependencies{
		Auth:               authService,
		Vehicles:           vehicleService,
		Users:              userService,
		Checks:             st.checks,
		Logger:             log,
		VehicleReadsPublic: cfg.VehicleReadsPublic,
		AllowOrigins:       cfg.AllowOrigins(),
	})

	// --- Serve until signalled ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("http server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return
	}
	log.Info().Msg("server stopped cleanly")
}

// must aborts startup on err. It is only used while wiring; after that errors
// are returned and handled.
func must(log zerolog.Logger, err error, step string) {
	if err != nil {
		log.Fatal().Err(err).Str("step", step).Msg("startup failure")
	}
}
