package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"resident-lockdown/internal/app"
	"resident-lockdown/internal/config"
	"resident-lockdown/internal/infra/memory"
	natsbus "resident-lockdown/internal/infra/nats"
	"resident-lockdown/internal/infra/postgres"
	redisinfra "resident-lockdown/internal/infra/redis"
	transport "resident-lockdown/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var loader memory.QuestionLoader = memory.NewDefaultQuestionLoader()
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := connectPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := postgres.NewQuestionStore(pool)
		if err := seedQuestions(ctx, store); err != nil {
			return err
		}
		loader = store
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		loader = redisinfra.NewQuestionCache(redisClient, loader, config.TTLDuration(cfg.Questions.TTL, 10*time.Minute))
	}

	hub := transport.NewHub(cfg.Server.SendBuffer)
	out := app.Broadcasters{hub}
	if cfg.NATS.URL != "" {
		pub, err := natsbus.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer pub.Close()
		out = append(out, pub)
	}

	g, gctx := errgroup.WithContext(ctx)

	gameOpts := app.Options{
		Settings:      cfg.Settings(),
		MessageBuffer: cfg.Game.MessageBuffer,
	}
	if redisClient != nil {
		snapshots := redisinfra.NewSnapshotStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		gameOpts.Snapshots = snapshots
		g.Go(func() error { return snapshots.Run(gctx) })
	}
	game := app.NewGame(memory.NewQuestionBank(loader), out, gameOpts)

	api := transport.NewServer(game, hub, transport.Options{
		AdminToken:   cfg.Admin.Token,
		PublicURL:    cfg.Server.PublicURL,
		MessageRate:  rate.Limit(cfg.Server.MessageRate),
		MessageBurst: cfg.Server.MessageBurst,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	g.Go(func() error {
		log.Printf("starting lockdown server on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}
