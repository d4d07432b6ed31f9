// Package admin provides administrative operations for table datasets.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/session"
	"github.com/JonMunkholm/admindash/internal/source"
)

// ExportTimeout is the maximum duration for exporting every table.
const ExportTimeout = 30 * time.Second

// Exporter copies registered tables from their configured source into a
// SQLite database. The result can be served back with SOURCE_KIND=sqlite.
type Exporter struct {
	DB      *sql.DB
	Sources session.SourceProvider
	Logger  *slog.Logger
}

type exportFn func(ctx context.Context) error

// ExportAll writes every registered table and returns how many were written.
// Existing dataset tables are replaced.
func (e *Exporter) ExportAll(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, ExportTimeout)
	defer cancel()

	defs := core.All()
	exports := make([]exportFn, 0, len(defs))
	for _, def := range defs {
		exports = append(exports, e.exportTable(def))
	}

	if err := e.runExports(ctx, exports); err != nil {
		return 0, err
	}
	return len(exports), nil
}

// ExportTable writes the single table named key.
func (e *Exporter) ExportTable(ctx context.Context, key string) error {
	def, err := core.Lookup(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, ExportTimeout)
	defer cancel()
	return e.exportTable(def)(ctx)
}

func (e *Exporter) exportTable(def core.TableDefinition) exportFn {
	return func(ctx context.Context) error {
		records, err := e.Sources.For(def).LoadRecords(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", def.Info.Key, err)
		}
		if err := source.Seed(ctx, e.DB, def, records); err != nil {
			return fmt.Errorf("export %s: %w", def.Info.Key, err)
		}
		if e.Logger != nil {
			e.Logger.Info("table exported", "table", def.Info.Key, "dataset", def.DatasetName(), "records", len(records))
		}
		return nil
	}
}

func (e *Exporter) runExports(ctx context.Context, exports []exportFn) error {
	for _, export := range exports {
		if err := export(ctx); err != nil {
			return err
		}
	}
	return nil
}
