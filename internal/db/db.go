package db

import (
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kelfit/internal/config"
	"kelfit/internal/model"
)

// Open connects to the backend selected by cfg.Driver and tunes the pool.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		gormDB *gorm.DB
		err    error
	)
	switch cfg.Driver {
	case "postgres":
		gormDB, err = NewPostgres(cfg.DSN)
	case "mysql":
		gormDB, err = NewMySQL(cfg.DSN)
	case "sqlite":
		gormDB, err = NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	if cfg.Driver != "sqlite" {
		if cfg.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		}
		if cfg.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return gormDB, nil
}

// NewPostgres returns a connected GORM DB instance for a hosted Postgres.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewSQLite opens (or creates) the embedded single-file database at path.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates the table set shared by every backend.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Workout{},
		&model.Exercise{},
		&model.Progress{},
		&model.Challenge{},
		&model.AppConfig{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const slowQueryThreshold = 200 * time.Millisecond

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(zerolog.New(os.Stdout).With().Timestamp().Str("component", "gorm").Logger()),
	}
}

// newGormLogger reports failed and slow statements. A missing row is an
// expected answer that callers handle, so it is not logged.
func newGormLogger(log zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// gormWriter forwards gorm's formatted lines to zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}
