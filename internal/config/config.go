package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned by Load when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("security.jwtsecret (JWT_SECRET) must be set")

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig selects and tunes the persistence backend.
// Driver is one of "postgres", "mysql" or "sqlite".
type DatabaseConfig struct {
	Driver          string
	DSN             string
	SQLitePath      string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SecurityConfig holds token settings.
type SecurityConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AdminConfig describes the account seeded at startup.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// StorageConfig holds the S3-compatible bucket used for profile photos.
// An empty Endpoint disables photo uploads.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

// JobsConfig holds cron specs for background jobs.
type JobsConfig struct {
	StatsSpec  string
	ConfigSpec string
}

// Config holds application level configuration.
type Config struct {
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Security    SecurityConfig
	Admin       AdminConfig
	Storage     StorageConfig
	Jobs        JobsConfig
	SwaggerHost string
}

// legacyEnv maps config keys to the unprefixed environment names the service
// has always accepted.
var legacyEnv = map[string]string{
	"environment":          "NODE_ENV",
	"http.port":            "SERVER_PORT",
	"database.driver":      "DB_DRIVER",
	"database.dsn":         "DATABASE_URL",
	"database.sqlitepath":  "SQLITE_PATH",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"security.jwtsecret":   "JWT_SECRET",
	"admin.email":          "ADMIN_EMAIL",
	"admin.password":       "ADMIN_PASSWORD",
	"storage.endpoint":     "STORAGE_ENDPOINT",
	"storage.accesskey":    "STORAGE_ACCESS_KEY",
	"storage.secretkey":    "STORAGE_SECRET_KEY",
	"storage.bucket":       "STORAGE_BUCKET",
	"storage.publicurl":    "STORAGE_PUBLIC_URL",
	"swaggerhost":          "SWAGGER_HOST",
}

// Load builds Config from an optional config.yaml and the environment.
// A missing JWT secret is a fatal configuration error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("KELFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "KELFIT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Security.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.Driver != "sqlite" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlitepath", "kelfit.db")
	v.SetDefault("database.maxopen", 20)
	v.SetDefault("database.maxidle", 5)
	v.SetDefault("database.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.accessttl", "24h")
	v.SetDefault("security.refreshttl", "168h")

	v.SetDefault("admin.email", "admin@kelfit.com")
	v.SetDefault("admin.name", "Admin")

	v.SetDefault("storage.bucket", "kelfit-photos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("jobs.statsspec", "0 */5 * * * *")
	v.SetDefault("jobs.configspec", "0 0 * * * *")
}
