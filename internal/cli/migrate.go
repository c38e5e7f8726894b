package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"resident-lockdown/internal/config"
	"resident-lockdown/internal/domain"
	"resident-lockdown/internal/infra/memory"
	"resident-lockdown/internal/infra/postgres"
	pgmigrations "resident-lockdown/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and seeds empty question levels.
func NewMigrateCmd(opts *options) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			if !seed {
				return nil
			}
			pool, err := connectPostgres(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			return seedQuestions(cmd.Context(), postgres.NewQuestionStore(pool))
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "insert the default questions into empty levels")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("migrations up to date")
		return nil
	}
	log.Printf("migrations applied: %s", group)
	return nil
}

// seedQuestions fills levels that hold no questions yet with the built-in riddles.
func seedQuestions(ctx context.Context, store *postgres.QuestionStore) error {
	defaults := map[int][]domain.Question{
		1: memory.DefaultLevel1Questions(),
		2: memory.DefaultLevel2Questions(),
	}
	for _, level := range []int{1, 2} {
		n, err := store.Count(ctx, level)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := store.Replace(ctx, level, defaults[level]); err != nil {
			return err
		}
		log.Printf("seeded %d level %d questions", len(defaults[level]), level)
	}
	return nil
}
