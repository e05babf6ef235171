package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/wayfarer"
	"gorm.io/gorm"
)

const migrationsTable = "migrations"

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

// execute runs the Migration in a transaction, recording its key alongside it.
func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp ensures schema and the migrations table exist
// and runs every Migration whose key is not recorded yet, in order.
//
// MigrateUp stops at the first Migration failing.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("%w: failed creating %s schema: %s", wayfarer.ErrUnexpected, schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: failed creating migrations table: %s", wayfarer.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return fmt.Errorf("%w: failed fetching ran migrations: %s", wayfarer.ErrUnexpected, err)
	}

	for _, m := range pending(migrations, ran) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s failed: %s", wayfarer.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

// pending filters out the migrations whose keys are in ran.
func pending(all []Migration, ran []string) []Migration {
	seen := make(map[string]bool, len(ran))
	for _, key := range ran {
		seen[key] = true
	}

	var toRun []Migration
	for _, m := range all {
		if !seen[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun
}
