package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/config"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/database"
)

func main() {
	var dir string

	root := &cobra.Command{
		Use:   "rentpilot-migrate",
		Short: "Apply rentpilot schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations in lexical order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.NewPostgresDB(cfg)
			if err != nil {
				return fmt.Errorf("cannot connect to database: %w", err)
			}
			defer db.Close()
			return applyAll(db, dir, cmd.OutOrStdout())
		},
	}
	up.Flags().StringVar(&dir, "dir", "migrations", "directory containing .sql migration files")

	root.AddCommand(up)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyAll(db *sql.DB, dir string, out io.Writer) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("cannot ensure schema_migrations: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		var applied bool
		if err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
		).Scan(&applied); err != nil {
			return fmt.Errorf("cannot check migration %s: %w", name, err)
		}
		if applied {
			fmt.Fprintf(out, "skip %s (already applied)\n", name)
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", name, err)
		}

		// Each migration file runs in one transaction.
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("cannot record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("cannot commit migration %s: %w", name, err)
		}
		fmt.Fprintf(out, "applied %s\n", name)
	}
	return nil
}
