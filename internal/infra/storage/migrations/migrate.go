package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
)

//go:embed *.sql
var files embed.FS

// ErrMigrate возвращается при ошибке применения миграции
var ErrMigrate = errors.New("migrations: failed to apply")

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Up применяет все еще не примененные миграции по порядку имен файлов
// Каждый файл применяется в своей транзакции вместе с записью в schema_migrations
func Up(ctx context.Context, db DBExecutor, txManager TransactionManager, log Logger) ([]string, error) {
	names, err := List()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		return nil, fmt.Errorf("%w: Up - create schema_migrations: %v", ErrMigrate, err)
	}

	applied := make([]string, 0)
	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("%w: Up - read %s: %v", ErrMigrate, name, err)
		}

		var done bool
		err = txManager.Do(ctx, func(ctx context.Context) error {
			executor := dbmetrics.GetExecutor(ctx, db)

			var exists bool
			if err := executor.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return nil
			}

			if _, err := executor.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			if _, err := executor.ExecContext(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("%w: Up - apply %s: %v", ErrMigrate, name, err)
		}

		if done {
			log.Info("Migration applied: %s", name)
			applied = append(applied, name)
		}
	}

	return applied, nil
}

// List возвращает имена встроенных миграций по порядку
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("%w: List - read embedded files: %v", ErrMigrate, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}
