package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bearcart-analytics/internal/application/dashboard"
	"bearcart-analytics/internal/infra/memory"
	"bearcart-analytics/internal/infrastructure/cache"
	"bearcart-analytics/internal/infrastructure/config"
	"bearcart-analytics/internal/infrastructure/db"
	"bearcart-analytics/internal/infrastructure/logger"
	"bearcart-analytics/internal/infrastructure/persistence/postgres"
	"bearcart-analytics/internal/infrastructure/upstream"
	httpapi "bearcart-analytics/internal/interface/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// app 為組裝完成的服務與需要釋放的資源。
type app struct {
	server    *httpapi.Server
	loader    *dashboard.Loader
	refresher *dashboard.Refresher
	closers   []func() error
}

func (a *app) Close() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	a.loader.Wait()
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		log.Fatalf("CRITICAL: load config failed: %v", err)
	}
	logr, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("CRITICAL: init logger failed: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)
	logr.WithField("http_addr", cfg.HTTP.Addr).Info("configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	a, err := newApp(ctx, cfg, logr)
	cancel()
	if err != nil {
		logr.WithError(err).Fatal("build application failed")
	}
	defer a.Close()

	if a.refresher != nil {
		a.refresher.Start()
	} else {
		a.loader.Select(cfg.Dashboard.DefaultRange)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.WithField("addr", srv.Addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logr.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.WithError(err).Warn("graceful shutdown failed")
	}
}

// newApp 依設定選擇資料來源：上游 API 優先，其次 PostgreSQL，皆未設定或失敗時使用示範資料。
func newApp(ctx context.Context, cfg config.Config, logr *logrus.Logger) (*app, error) {
	a := &app{}
	deps := httpapi.Dependencies{Log: logr}

	var source dashboard.Source
	switch {
	case cfg.Upstream.BaseURL != "":
		client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
		source = client
		deps.Upstream = client
		deps.SourceName = "upstream"
	default:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			logr.WithError(err).Warn("database connection failed, falling back to demo data")
		}
		if pool != nil {
			a.closers = append(a.closers, pool.Close)
			source = postgres.NewRepo(pool)
			deps.DB = pool
			deps.SourceName = "postgres"
		} else {
			store := memory.NewStore()
			store.SeedDemo()
			logr.WithField("ranges", store.Ranges()).Info("no upstream or database configured, serving demo data")
			source = store
			deps.SourceName = "memory"
		}
	}

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logr.WithError(err).Warn("redis unavailable, caching disabled")
	}
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
		source = cache.NewMetricsCache(rdb, source, cfg.Redis.TTL, logr)
		deps.Redis = rdb
	}

	settings := dashboard.Settings{
		AssumedAOV:   cfg.Dashboard.AssumedAOV,
		ProductLimit: cfg.Dashboard.ProductLimit,
	}
	uc := dashboard.NewUseCase(source, settings, dashboard.NewLockedSource(cfg.Dashboard.RandomSeed), nil, logr)
	a.loader = dashboard.NewLoader(uc, cfg.Dashboard.DefaultRange, logr)
	if cfg.Dashboard.RefreshInterval > 0 {
		a.refresher = dashboard.NewRefresher(a.loader, cfg.Dashboard.RefreshInterval, logr)
	}

	deps.Dashboard = uc
	deps.Loader = a.loader
	a.server = httpapi.NewServer(deps)
	logr.WithField("source", deps.SourceName).Info("dashboard source selected")
	return a, nil
}
