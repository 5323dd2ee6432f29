package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"isekai-quiz-service/internal/config"
	"isekai-quiz-service/internal/domain"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewSeedCmd loads the catalog file into Postgres so the server can serve it
// from the database instead of disk.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the question catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog path not configured")
	}

	raw, err := os.ReadFile(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO catalogs (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		catalogID(cfg), string(data)); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	log.Printf("seeded catalog %q with %d questions", catalogID(cfg), len(catalog))
	return nil
}
