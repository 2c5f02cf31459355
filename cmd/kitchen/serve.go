package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gofalre.io/kitchen/config"
	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/event"
	"gofalre.io/kitchen/store"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "啟動訂單表伺服器（與試算表 Web App 相同介面）",
		Long: `serve 提供 GET 讀取整張訂單表、POST 表單變更訂單狀態的 HTTP 介面，
同時掛在 / 與 /exec。資料可存在記憶體、SQLite 或 Postgres，
設定 redis.addr 後讀取會經過 Redis 快取。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "監聽位址，預設使用 server.addr")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           store.NewHandler(repo, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Order store listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", a.cfg.Server.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down order store")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore 依 server.backend 建立訂單表，設定 redis.addr 時外層加上快取
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Repository, func(), error) {
	var (
		repo    store.Repository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Server.Backend {
	case config.BackendPostgres:
		pool, err := driver.ConnectPostgres(ctx, cfg.Postgres.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)

		if err = store.MigratePostgres(ctx, pool); err != nil {
			closeAll()
			return nil, nil, err
		}
		tm := driver.NewTransactionManager(pool, logger)
		repo = store.NewPostgresRepository(pool, tm, event.NewRepository(pool, logger), cfg.Terminal.Name, logger)

	case config.BackendSQLite:
		db, err := driver.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })

		if repo, err = store.NewSQLiteRepository(ctx, db, logger); err != nil {
			closeAll()
			return nil, nil, err
		}

	case config.BackendMemory:
		repo = store.NewMemoryRepository()

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Server.Backend)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := driver.ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		repo = store.NewCachedRepository(repo, rdb, cfg.GetRedisTTL(), logger)
	}

	return repo, closeAll, nil
}
