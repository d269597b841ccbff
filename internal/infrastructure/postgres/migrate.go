package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"

	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// versionTable guarda la versión aplicada (tabla de tern).
const versionTable = "schema_version"

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationFiles expone migrations/ como raíz: tern espera NNN_nombre.sql en el primer nivel.
func migrationFiles() (fs.FS, error) {
	return fs.Sub(migrationFS, "migrations")
}

// Migrate lleva el esquema a la última versión embebida. Cada migración corre en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return wrapErr("adquirir conexión para migrar", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return wrapErr("crear migrador", err)
	}
	files, err := migrationFiles()
	if err != nil {
		return err
	}
	if err := m.LoadMigrations(files); err != nil {
		return fmt.Errorf("cargar migraciones: %w", err)
	}
	m.OnStart = func(seq int32, name, direction, _ string) {
		log.Info().Int32("version", seq).Str("migration", name).Str("direction", direction).Msg("aplicando migración")
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return wrapErr("leer versión del esquema", err)
	}
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrar desde la versión %d: %w", from, err)
	}
	to, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return wrapErr("leer versión del esquema", err)
	}
	log.Info().Int32("from", from).Int32("to", to).Msg("esquema al día")
	return nil
}
