// migrate aplica los scripts SQL de migrations/ sobre la base configurada (DATABASE_URL o DB_*).
//
// Uso: go run ./cmd/migrate [directorio]
// Por defecto usa ./migrations. Cada archivo se aplica una sola vez (tabla schema_migrations).
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Negocio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Negocio-api/pkg/config"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

func main() {
	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	migrations, err := postgres.LoadMigrations(os.DirFS(dir))
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("leer migraciones")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, migrations, log)
	if err != nil {
		log.Error().Err(err).Strs("aplicadas", applied).Msg("migración interrumpida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Int("aplicadas", len(applied)).Int("total", len(migrations)).Msg("esquema al día")
}
