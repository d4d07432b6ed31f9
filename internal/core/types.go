// Package core provides the table engine for the admin dashboard.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"math/rand/v2"
)

// RecordSource supplies the initial rows of a table when it is mounted.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a function to RecordSource.
type SourceFunc func(ctx context.Context) ([]Record, error)

// LoadRecords calls f.
func (f SourceFunc) LoadRecords(ctx context.Context) ([]Record, error) {
	return f(ctx)
}

// StaticSource serves a fixed slice. Useful in tests and the terminal client.
type StaticSource []Record

// LoadRecords returns the slice.
func (s StaticSource) LoadRecords(context.Context) ([]Record, error) {
	return s, nil
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key         string // Unique identifier: "groups"
	Group       string // Sidebar section: "Users", "Learning", "Finance"
	Label       string // Display name: "Groups"
	Description string // Subheading on the table page
	EmptyText   string // Empty-state row: "No groups found."
	Dataset     string // Name of the backing dataset in file, SQL and S3 sources
	TextFilter  bool   // Show the search box
	DateFilter  bool   // Show the date picker
	Draggable   bool   // Rows can be reordered
}

// GenerateFunc produces seeded demo rows for a table.
type GenerateFunc func(rng *rand.Rand) []Record

// TableDefinition contains everything needed to mount a table.
type TableDefinition struct {
	Info     TableInfo
	Schema   Schema
	PageSize int          // Default page size; 0 uses DefaultPageSize
	Generate GenerateFunc // Demo data for the generator source
}

// DefaultPageSize returns the table's page size bounded to [1, MaxPageSize].
func (d TableDefinition) DefaultPageSize() int {
	return ClampPageSize(d.PageSize)
}

// DatasetName returns Info.Dataset, falling back to the table key.
func (d TableDefinition) DatasetName() string {
	if d.Info.Dataset != "" {
		return d.Info.Dataset
	}
	return d.Info.Key
}
