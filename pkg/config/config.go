package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the guide backend.
// Configuration comes from config.yaml with environment variable overrides;
// environment variables always win. Secrets (ADMIN_API_KEY, PGPASSWORD) must
// only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// AdminAPIKey protects the admin endpoints. When empty the admin surface
	// fails closed and rejects every request.
	AdminAPIKey string `yaml:"-" env:"ADMIN_API_KEY"`

	// Supported program year range. Recomputation targets outside this range
	// are rejected, not clamped.
	MinYear int `yaml:"min_year" env:"MIN_YEAR" env-default:"2005"`
	MaxYear int `yaml:"max_year" env:"MAX_YEAR" env-default:"2100"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"gsocguide"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"gsocguide"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds the optional Redis cache configuration.
// Leave Host empty to run without a cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTLSecs  int    `yaml:"ttl_seconds" env:"REDIS_TTL_SECONDS" env-default:"300"`
}

// SnapshotConfig holds settings for the static snapshot generator.
type SnapshotConfig struct {
	OutputDir string `yaml:"output_dir" env:"SNAPSHOT_OUTPUT_DIR" env-default:"data"`
	// TopOrgs is how many currently-active organizations the homepage
	// document lists.
	TopOrgs int `yaml:"top_orgs" env:"SNAPSHOT_TOP_ORGS" env-default:"25"`
	// Yearly topic stats cover this fixed range.
	StatsFromYear int `yaml:"stats_from_year" env:"SNAPSHOT_STATS_FROM_YEAR" env-default:"2016"`
	StatsToYear   int `yaml:"stats_to_year" env:"SNAPSHOT_STATS_TO_YEAR" env-default:"2025"`
}

// Load reads configuration from the given YAML file with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. A missing config file is not an error; env defaults apply.
func Load(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		// Fall back to env-only configuration when the file is absent.
		if envErr := cleanenv.ReadEnv(cfg); envErr != nil {
			return nil, fmt.Errorf("failed to read config: %w", envErr)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinYear >= c.MaxYear {
		return fmt.Errorf("min_year %d must be below max_year %d", c.MinYear, c.MaxYear)
	}
	if c.Snapshot.StatsFromYear > c.Snapshot.StatsToYear {
		return fmt.Errorf("snapshot stats_from_year %d must not exceed stats_to_year %d",
			c.Snapshot.StatsFromYear, c.Snapshot.StatsToYear)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
