package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Run executes a goose command against the embedded migration set.
func Run(ctx context.Context, db *sql.DB, dbCfg config.DBConfig, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if err := goose.SetDialect(gooseDialect(dbCfg)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrationsFS)

	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func gooseDialect(dbCfg config.DBConfig) string {
	if dbCfg.IsSQLite() {
		return "sqlite3"
	}
	return "postgres"
}
