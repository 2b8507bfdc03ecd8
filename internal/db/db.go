package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"toonify/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// EnsureSchema crea la tabla de galeria si no existe. El embedding de
// personalidad usa pgvector con las cuatro dimensiones del perfil.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS gallery_characters (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			age          INT NOT NULL,
			height       INT NOT NULL,
			weight       INT NOT NULL,
			source_photo TEXT NOT NULL DEFAULT '',
			image_url    TEXT NOT NULL,
			cost         DOUBLE PRECISION NOT NULL DEFAULT 0,
			model_used   TEXT NOT NULL DEFAULT '',
			style        TEXT NOT NULL,
			personality  JSONB NOT NULL DEFAULT '{}',
			embedding    VECTOR(4),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS gallery_characters_created_at_idx
			ON gallery_characters (created_at DESC);
	`
	_, err := pool.Exec(ctx, schema)
	return err
}
