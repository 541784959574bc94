package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "inventory-api", cfg.Auth.Issuer)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "bcrypt", cfg.Auth.HashScheme)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.True(t, cfg.VehicleReadsPublic)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.IdentityTTL)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s3cret",
		"TOKEN_TTL":            "65m",
		"HASH_SCHEME":          "argon2id",
		"STORE_DRIVER":         "sqlite",
		"VEHICLE_READS_PUBLIC": "false",
		"CORS_ALLOW_ORIGINS":   "https://a.example, https://b.example",
		"ENV":                  "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, 65*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "argon2id", cfg.Auth.HashScheme)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.False(t, cfg.VehicleReadsPublic)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins())
	assert.True(t, cfg.IsProduction())
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "x", "STORE_DRIVER": "cassandra"},
		"bad scheme":     {"JWT_SECRET": "x", "HASH_SCHEME": "md5"},
		"zero ttl":       {"JWT_SECRET": "x", "TOKEN_TTL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
		})
	}
}
