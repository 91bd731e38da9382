package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"openmusic-service/internal/auth"
	"openmusic-service/internal/catalog"
	"openmusic-service/internal/config"
	"openmusic-service/internal/database"
	"openmusic-service/internal/playlist"
	"openmusic-service/internal/queue"
)

const shutdownTimeout = 10 * time.Second

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

func runMigrations(ctx context.Context, db database.DB) error {
	for _, m := range []struct {
		name string
		fn   func(context.Context, database.DB) error
	}{
		{"auth", auth.AutoMigrate},
		{"catalog", catalog.AutoMigrate},
		{"playlist", playlist.AutoMigrate},
	} {
		if err := m.fn(ctx, db); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		log.Debug("migrate: applied", "module", m.name)
	}
	return nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := runMigrations(ctx, pool); err != nil {
		return err
	}
	log.Info("migrate: schema up to date")
	return nil
}

func deleteUser(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("delete-user: a user id is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := auth.NewPostgresUsers(pool, cfg.Auth.BcryptCost).DeleteUser(ctx, id); err != nil {
		return err
	}
	log.Info("delete-user: removed", "user", id)
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := runMigrations(ctx, pool); err != nil {
		return err
	}

	rdb, err := openRedis(cfg.Cache.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	producer, err := openProducer(cfg.Queue, rdb)
	if err != nil {
		return err
	}
	defer producer.Close()

	router, err := newRouter(cfg, deps{pool: pool, rdb: rdb, producer: producer})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server: listening", "addr", srv.Addr, "public", cfg.Server.PublicBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRedis returns nil when no URL is configured; the cache then always
// reads through to Postgres.
func openRedis(url string) (*redis.Client, error) {
	if url == "" {
		log.Warn("cache: redis url empty, caching disabled")
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func openProducer(cfg config.QueueConfig, rdb *redis.Client) (queue.Producer, error) {
	switch cfg.Driver {
	case config.QueueRedis:
		if rdb == nil {
			return nil, errors.New("queue driver redis requires REDIS_URL")
		}
		return queue.NewRedisProducer(rdb), nil
	default:
		return queue.NewAMQPProducer(cfg.RabbitMQURL, cfg.PublishTimeout), nil
	}
}

type deps struct {
	pool     *pgxpool.Pool
	rdb      *redis.Client
	producer queue.Producer
}
