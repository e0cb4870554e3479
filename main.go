package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentlib/config"
	"contentlib/internal/content/graph"
	"contentlib/internal/content/repository"
	"contentlib/internal/content/service"
	"contentlib/pkg/logger"
	"contentlib/pkg/metrics"
	"contentlib/router"
	"contentlib/socket"
	"contentlib/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info")
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open content store: %v", err)
	}
	defer closeStore()

	var hub *socket.Hub
	var notifier service.Notifier
	if cfg.LiveUpdates {
		hub = socket.NewHub()
		go hub.Run(ctx)
		notifier = hub
	}

	svc := service.NewContentService(repo, notifier)
	schema := graph.NewSchema(svc)

	var client web.Client = web.NewSchemaClient(schema)
	if cfg.GraphQL.Endpoint != "" {
		logger.Sugar.Infof("Web pages use GraphQL endpoint %s", cfg.GraphQL.Endpoint)
		client = web.NewHTTPClient(cfg.GraphQL.Endpoint)
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled && cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Sugar.Warnf("Redis unavailable, using in-memory rate limiting: %v", err)
			rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: router.Setup(router.Deps{
			Schema:    schema,
			Pages:     web.NewPages(client, cfg.LiveUpdates),
			Hub:       hub,
			Redis:     rdb,
			RateLimit: cfg.RateLimit,
			Gatherer:  reg,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Sugar.Infof("Content library listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar.Errorf("Graceful shutdown failed: %v", err)
	}
}
