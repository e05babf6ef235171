package postgres

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xy-planning-network/wayfarer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
	cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

	publicSchema = "public"
)

// A CxnConfig says how to reach a PostgreSQL database.
// A URL, when set, wins over the individual fields.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Connect opens the database cfg describes and brings it up to date with migrations.
//
// A test database has its public schema dropped first, so every run starts empty.
func Connect(cfg *CxnConfig, migrations []Migration, env wayfarer.Environment) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no connection config", wayfarer.ErrBadConfig)
	}

	db, err := gorm.Open(postgres.Open(buildCxnStr(cfg)), gormConfig(env))
	if err != nil {
		return nil, fmt.Errorf("%w: failed connecting: %s", wayfarer.ErrUnexpected, err)
	}

	if cfg.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS " + publicSchema + " CASCADE;").Error; err != nil {
			return nil, fmt.Errorf("%w: failed dropping test schema: %s", wayfarer.ErrUnexpected, err)
		}
	}

	if err := MigrateUp(db, publicSchema, migrations); err != nil {
		return nil, err
	}

	return NewDB(db), nil
}

// gormConfig has GORM report slow queries and failures through slog, and nothing while testing.
// Timestamps are cut to microseconds, the precision PostgreSQL keeps.
func gormConfig(env wayfarer.Environment) *gorm.Config {
	l := logger.Discard
	if !env.IsTesting() {
		// https://gorm.io/docs/logger.html
		l = logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  env.IsDevelopment(),
		})
	}

	return &gorm.Config{
		Logger:         l,
		NamingStrategy: schema.NamingStrategy{NameReplacer: strings.NewReplacer("Table", "")},
		NowFunc:        func() time.Time { return time.Now().Truncate(time.Microsecond) },
	}
}

func buildCxnStr(cfg *CxnConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(cxnStr, cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password, sslMode)
}

// WipeDB empties every table in schema but the migrations table, keeping the tables themselves.
func WipeDB(db *gorm.DB, schema string) error {
	var tables []string
	err := db.Raw(`
		SELECT quote_ident(table_schema) || '.' || quote_ident(table_name)
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name <> ? AND table_type <> 'VIEW'`,
		schema, migrationsTable,
	).Scan(&tables).Error
	if err != nil {
		return fmt.Errorf("%w: %s", wayfarer.ErrUnexpected, err)
	}

	if len(tables) == 0 {
		return nil
	}

	return db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;").Error
}
