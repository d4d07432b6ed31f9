// Package source provides the record loaders that fill a table's row store
// when it is mounted.
//
// Every backend returns the same shape: one object per row, keyed by column,
// with an "id" field. Values are typed by the table schema through
// core.RecordFromRow, so a JSON file, a SQLite table and a Postgres table
// holding the same dataset produce identical records.
//
// Sources only load. Filtering, sorting and pagination always run in Go over
// the loaded sequence.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
)

// IDColumn is the id field every dataset carries.
const IDColumn = "id"

// Factory builds a RecordSource per table from the configured backend.
// Connections are opened once and shared by every table.
type Factory struct {
	kind   string
	seed   uint64
	dir    string
	prefix string
	bucket string

	db     *sql.DB
	pool   *pgxpool.Pool
	s3     *s3.Client
	logger *slog.Logger
}

// NewFactory opens the backend named by cfg.Kind.
func NewFactory(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (*Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Factory{
		kind:   cfg.Kind,
		seed:   cfg.Seed,
		dir:    cfg.Dir,
		prefix: cfg.S3.Prefix,
		bucket: cfg.S3.Bucket,
		logger: logger.With("source", cfg.Kind),
	}

	var err error
	switch cfg.Kind {
	case config.SourceGenerator, config.SourceJSON, "":
	case config.SourceSQLite:
		f.db, err = OpenSQLite(cfg.SQLitePath)
	case config.SourcePostgres:
		f.pool, err = OpenPostgres(ctx, cfg)
	case config.SourceS3:
		f.s3, err = NewS3Client(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Kind returns the backend name.
func (f *Factory) Kind() string {
	return f.kind
}

// For returns the loader for one table.
func (f *Factory) For(def core.TableDefinition) core.RecordSource {
	var src core.RecordSource
	switch f.kind {
	case config.SourceJSON:
		src = JSONFile{Dir: f.dir, Def: def}
	case config.SourceSQLite:
		src = SQL{DB: f.db, Def: def}
	case config.SourcePostgres:
		src = Postgres{Pool: f.pool, Def: def}
	case config.SourceS3:
		src = S3Object{Client: f.s3, Bucket: f.bucket, Key: ObjectKey(f.prefix, def), Def: def}
	default:
		src = Generator{Seed: f.seed, Def: def}
	}
	return logged{src: src, table: def.Info.Key, logger: f.logger}
}

// Close releases database connections.
func (f *Factory) Close() error {
	if f.pool != nil {
		f.pool.Close()
	}
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}

// logged records load outcomes.
type logged struct {
	src    core.RecordSource
	table  string
	logger *slog.Logger
}

func (l logged) LoadRecords(ctx context.Context) ([]core.Record, error) {
	records, err := l.src.LoadRecords(ctx)
	if err != nil {
		l.logger.Warn("load failed", "table", l.table, "error", err)
		return nil, err
	}
	l.logger.Debug("loaded", "table", l.table, "rows", len(records))
	return records, nil
}

// decodeRows types raw rows by the table schema. An empty dataset is valid.
func decodeRows(def core.TableDefinition, rows []map[string]any) ([]core.Record, error) {
	records := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := core.RecordFromRow(def.Schema, IDColumn, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", def.DatasetName(), i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// selectColumns returns the quoted id and schema columns for a SELECT list.
func selectColumns(schema core.Schema) []string {
	cols := make([]string, 0, len(schema.Columns)+1)
	cols = append(cols, quoteIdentifier(IDColumn))
	for _, c := range schema.Columns {
		cols = append(cols, quoteIdentifier(c.Key))
	}
	return cols
}

// selectQuery lists a dataset in id order.
func selectQuery(def core.TableDefinition) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(selectColumns(def.Schema), ", "),
		quoteIdentifier(def.DatasetName()),
		quoteIdentifier(IDColumn),
	)
}

// quoteIdentifier safely quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// rowMap pairs scanned values with the id and schema column keys.
func rowMap(schema core.Schema, values []any) map[string]any {
	row := make(map[string]any, len(values))
	row[IDColumn] = values[0]
	for i, c := range schema.Columns {
		if i+1 < len(values) {
			row[c.Key] = values[i+1]
		}
	}
	return row
}
