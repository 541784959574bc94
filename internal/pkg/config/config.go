package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// VehicleReadsPublic leaves GET /vehicles and GET /vehicles/{id} open to
	// anonymous callers. When false they require any authenticated identity.
	VehicleReadsPublic bool `env:"VEHICLE_READS_PUBLIC, default=true"`

	// CORSAllowOrigins is a comma separated list of allowed origins.
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	Issuer     string        `env:"JWT_ISSUER,  default=inventory-api"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=30m"`
	HashScheme string        `env:"HASH_SCHEME, default=bcrypt"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
	SQLDSN string `env:"SQL_DSN,      default=file:inventory.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=inventory"`
}

type RedisConfig struct {
	Enabled     bool          `env:"REDIS_ENABLED,      default=false"`
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	IdentityTTL time.Duration `env:"REDIS_IDENTITY_TTL, default=1m"`
}

type SeedConfig struct {
	Enabled       bool   `env:"SEED_ENABLED,        default=true"`
	AdminUsername string `env:"SEED_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin123"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=admin@example.com"`
	Vehicles      bool   `env:"SEED_VEHICLES,       default=true"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AllowOrigins splits CORS_ALLOW_ORIGINS into its entries.
func (c *Config) AllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreMongo, StoreSQLite, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of mongo, sqlite, postgres, memory", c.Store.Driver)
	}
	switch c.Auth.HashScheme {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("HASH_SCHEME %q is not one of bcrypt, argon2id", c.Auth.HashScheme)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
