package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"entgo.io/ent/dialect"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// goose keeps its settings in package globals.
var migrateMu sync.Mutex

// Migrate applies the embedded migrations for the database's dialect.
func Migrate(ctx context.Context, db *DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	gooseDialect, dir := "sqlite3", "migrations/sqlite"
	if db.Dialect == dialect.Postgres {
		gooseDialect, dir = "postgres", "migrations/postgres"
	}

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{logger: db.logger})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.SQL, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "migrate")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "migrate")
}
