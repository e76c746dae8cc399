package infra

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewDatabase opens the local SQLite file and brings the schema to the current
// version with goose. The schema is fixed and versioned: optional columns are
// declared by migrations, never probed at runtime.
//
// busy_timeout makes a second writer block instead of failing immediately;
// contention past the timeout surfaces as a retryable persistence error.
func NewDatabase(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers at the file level; a small pool is enough.
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("migraciones: %w", err)
	}

	seedBestEffort(db)

	return db, nil
}

// runMigrations applies the embedded goose migrations.
func runMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// seedBestEffort inserts the default loyalty parameters when absent. Each step
// is named and its failure logged — the engine still starts, but the outcome
// is observable instead of silently swallowed.
func seedBestEffort(db *gorm.DB) {
	steps := []struct{ descr, sql string }{
		{"parametro fidelizacion_activa",
			`INSERT OR IGNORE INTO parametros (clave, valor) VALUES ('fidelizacion_activa', '1')`},
		{"parametro porcentaje_puntos_default",
			`INSERT OR IGNORE INTO parametros (clave, valor) VALUES ('porcentaje_puntos_default', '1')`},
		{"parametro puntos_por_unidad_moneda",
			`INSERT OR IGNORE INTO parametros (clave, valor) VALUES ('puntos_por_unidad_moneda', '1')`},
	}
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Warn().Err(err).Str("paso", s.descr).Msg("seed best-effort fallido")
		}
	}
}
