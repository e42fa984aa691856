package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// MigrationsDir - каталог migrations/ относительно пакета repository/postgres
const MigrationsDir = "../../../migrations"

// Migrate применяет .up.sql файлы каталога по порядку имён, каждый в своей транзакции.
// Миграции написаны идемпотентно, повторный запуск из другого suite безопасен.
func (tdb *TestDB) Migrate(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)

	for _, path := range files {
		name := filepath.Base(path)
		if err := tdb.applyMigration(ctx, path); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		tdb.Logger.Info("Applied migration", zap.String("file", name))
	}
	return nil
}

func (tdb *TestDB) applyMigration(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := tdb.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return err
	}
	return tx.Commit()
}
