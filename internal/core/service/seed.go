package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// SeedOptions controls what Seed inserts at startup.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	Vehicles      bool
}

// sampleVehicles are inserted only into an empty vehicle collection.
var sampleVehicles = []domain.Vehicle{
	{Brand: "Toyota", Model: "Camry", Year: 2020, Price: 25000},
	{Brand: "Honda", Model: "Accord", Year: 2021, Price: 27000},
}

// Seed makes sure an admin identity exists and, when asked, that the vehicle
// collection is not empty. It is safe to run on every start.
func Seed(
	ctx context.Context,
	users ports.IdentityRepository,
	vehicles ports.VehicleRepository,
	hasher ports.PasswordHasher,
	opts SeedOptions,
	log zerolog.Logger,
) error {
	if opts.AdminUsername != "" {
		if err := seedAdmin(ctx, users, hasher, opts, log); err != nil {
			return err
		}
	}

	if !opts.Vehicles {
		return nil
	}

	n, err := vehicles.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count vehicles: %w", err)
	}
	if n > 0 {
		return nil
	}

	for i := range sampleVehicles {
		v := sampleVehicles[i]
		if _, err := vehicles.Create(ctx, &v); err != nil {
			return fmt.Errorf("seed: create vehicle: %w", err)
		}
	}
	log.Info().Int("count", len(sampleVehicles)).Msg("seeded sample vehicles")
	return nil
}

func seedAdmin(ctx context.Context, users ports.IdentityRepository, hasher ports.PasswordHasher, opts SeedOptions, log zerolog.Logger) error {
	existing, err := users.FindByUsername(ctx, opts.AdminUsername)
	if err != nil {
		return fmt.Errorf("seed: find admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashed, err := hasher.Hash(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}

	admin, err := users.Create(ctx, &domain.User{
		Username:     opts.AdminUsername,
		Email:        opts.AdminEmail,
		PasswordHash: hashed,
		FullName:     "Administrator",
		Role:         domain.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}

	log.Info().Int64("user_id", admin.ID).Str("username", admin.Username).Msg("seeded admin identity")
	return nil
}
