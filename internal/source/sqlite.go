package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/admindash/internal/core"
)

// OpenSQLite opens a read-mostly SQLite database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// SQL loads a table from a database/sql handle. The dataset name is the
// table name; it must have an id column plus one column per schema key.
type SQL struct {
	DB  *sql.DB
	Def core.TableDefinition
}

// LoadRecords selects every row in id order.
func (s SQL) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("%w: no database", core.ErrSourceUnavailable)
	}

	rows, err := s.DB.QueryContext(ctx, selectQuery(s.Def))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Def.DatasetName(), err)
	}
	defer rows.Close()

	width := len(s.Def.Schema.Columns) + 1
	var raw []map[string]any
	for rows.Next() {
		values := make([]any, width)
		ptrs := make([]any, width)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Def.DatasetName(), err)
		}
		raw = append(raw, rowMap(s.Def.Schema, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return decodeRows(s.Def, raw)
}

// Seed creates the dataset table in db and inserts records. Used by
// tablectl -export-sqlite and tests.
func Seed(ctx context.Context, db *sql.DB, def core.TableDefinition, records []core.Record) error {
	cols := make([]string, 0, len(def.Schema.Columns)+1)
	cols = append(cols, quoteIdentifier(IDColumn)+" INTEGER PRIMARY KEY")
	for _, c := range def.Schema.Columns {
		typ := "TEXT"
		if c.Kind == core.KindNumber {
			typ = "REAL"
		}
		cols = append(cols, quoteIdentifier(c.Key)+" "+typ)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	table := quoteIdentifier(def.DatasetName())
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", def.DatasetName(), err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", def.DatasetName(), err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(def.Schema.Columns)+1), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(selectColumns(def.Schema), ", "), placeholders)

	for _, r := range records {
		args := make([]any, 0, len(def.Schema.Columns)+1)
		args = append(args, r.ID)
		for _, c := range def.Schema.Columns {
			v := r.Get(c.Key)
			if c.Kind == core.KindNumber {
				args = append(args, v.Num)
			} else {
				args = append(args, v.Str)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", def.DatasetName(), r.ID, err)
		}
	}

	return tx.Commit()
}
