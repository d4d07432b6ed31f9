package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
)

// OpenPostgres creates and pings a connection pool.
func OpenPostgres(ctx context.Context, cfg config.SourceConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}

// Postgres loads a table from a PostgreSQL pool.
type Postgres struct {
	Pool *pgxpool.Pool
	Def  core.TableDefinition
}

// LoadRecords selects every row in id order.
func (p Postgres) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if p.Pool == nil {
		return nil, fmt.Errorf("%w: no database", core.ErrSourceUnavailable)
	}

	rows, err := p.Pool.Query(ctx, selectQuery(p.Def))
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var raw []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		raw = append(raw, rowMap(p.Def.Schema, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return decodeRows(p.Def, raw)
}
