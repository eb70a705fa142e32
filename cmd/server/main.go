package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/config"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/api/handler"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/api/router"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
	applogger "github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/logger"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/redis"
)

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config failed: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. durable session store: Redis when reachable, process memory
	// otherwise. Degraded mode works but forgets on restart.
	var store session.DurableStore
	rdb, err := redis.NewClient(redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, session state will not survive restarts", zap.Error(err))
		rdb = nil
		store = session.NewMemoryStore()
	} else {
		store = rdb
	}

	// 4. session manager; hydrate what a previous run persisted
	tokens := session.NewTokenStore()
	sess := session.NewManager(store, tokens, cfg.Session.Namespace, cfg.Session.HistoryCapacity, logger)

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sess.Hydrate(hydrateCtx); err != nil {
		logger.Warn("session hydration failed, starting clean", zap.Error(err))
	}
	cancelHydrate()

	// 5. solver server client
	api := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, tokens, logger)

	// 6. dependency wiring: upstream → service → handler
	svc := service.NewService(cfg, api, sess, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, sess, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
