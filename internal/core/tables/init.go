// Package tables registers the dashboard's table definitions with the core
// registry. Import this package to ensure all tables are registered.
package tables

// This file exists to provide a single import point.
// Each table file uses init() to register its tables.
