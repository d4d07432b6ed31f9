// Command tablectl browses and reorders dashboard tables from a terminal.
//
//	tablectl -table groups
//	tablectl -export-sqlite admindash.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/admindash/internal/admin"
	"github.com/JonMunkholm/admindash/internal/application"
	"github.com/JonMunkholm/admindash/internal/config"
	_ "github.com/JonMunkholm/admindash/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/source"
)

func main() {
	table := flag.String("table", "", "table key to open (default: show the table menu)")
	exportPath := flag.String("export-sqlite", "", "write every table to this SQLite file and exit")
	logPath := flag.String("log", "", "append logs to this file (default: discard)")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*table, *exportPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "tablectl:", err)
		os.Exit(1)
	}
}

func run(table, exportPath, logPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.New(f, cfg.Logging.Level, cfg.Logging.Format)
	}
	slog.SetDefault(logger)

	ctx := context.Background()
	sources, err := source.NewFactory(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	defer sources.Close()

	var exporter *admin.Exporter
	if exportPath != "" {
		db, err := source.OpenSQLite(exportPath)
		if err != nil {
			return err
		}
		defer db.Close()
		exporter = &admin.Exporter{DB: db, Sources: sources, Logger: logger}

		// Non-interactive export when no table was asked for.
		if table == "" {
			n, err := exporter.ExportAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("exported %d tables to %s\n", n, exportPath)
			return nil
		}
	}

	model := application.New(application.Options{
		Sources:  sources,
		Exporter: exporter,
		Logger:   logger,
		Table:    table,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
