package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/data/db"
	httpx "github.com/yungbote/stylepath-backend/internal/http"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	dbService    *db.Service
	server       *httpx.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	metrics := observability.Init(log, cfg.MetricsEnabled)
	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	dbs, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}
	theDB := dbs.DB()

	clients := wireClients(context.Background(), log, cfg, metrics)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	mw := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, handlerset, mw, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		dbService:    dbs,
		server:       httpx.NewServer(":"+cfg.Port, router),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background collectors. It is a no-op when already started.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}
}

// Run serves HTTP until Shutdown is called or the listener fails.
func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.server.Run()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
