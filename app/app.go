package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bundle-configurator/app/controller"
	"bundle-configurator/app/router"
	"bundle-configurator/config"
	"bundle-configurator/db"
	"bundle-configurator/metrics"
	"bundle-configurator/repository"
	"bundle-configurator/service"
	"bundle-configurator/utils"
)

// App is the wired configurator service
type App struct {
	Handler http.Handler
	Catalog *service.CatalogService
	Widgets *service.WidgetService
	Bus     *service.CartBus
	Metrics *metrics.Metrics

	db          *sql.DB
	watcher     *repository.CatalogWatcher
	stopSweeper context.CancelFunc
	logger      *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{logger: logger, Metrics: metrics.New()}

	// Initialize catalog repository
	var repo repository.CatalogRepositoryInterface
	switch cfg.Catalog.Source {
	case "postgres":
		conn, err := db.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = conn
		repo = repository.NewCatalogRepository(conn, logger)
	default:
		repo = repository.NewFileCatalogRepository(cfg.Catalog.Dir, logger)
	}

	// Load the initial snapshot. A failure leaves widgets with an empty catalog.
	a.Catalog = service.NewCatalogService(repo, logger, a.Metrics)
	if err := a.Catalog.Load(ctx); err != nil {
		logger.Warn("Initialize: starting without a catalog", zap.Error(err))
	}

	if cfg.Catalog.Source == "file" && cfg.Catalog.Watch {
		if err := a.watchCatalog(cfg.Catalog.Dir); err != nil {
			logger.Warn("Initialize: catalog watch disabled", zap.String("dir", cfg.Catalog.Dir), zap.Error(err))
		}
	}

	// Initialize cart client and notifications
	cartClient := service.NewCartClient(cfg.Cart.BaseURL, cfg.Cart.Timeout, logger)
	a.Bus = service.NewCartBus(logger)
	go logCartChanges(a.Bus, logger)

	a.Widgets = service.NewWidgetService(a.Catalog, cartClient, a.Bus, service.WidgetOptions{
		Pipeline: service.PipelineOptions{
			IdleLabel: cfg.Widget.IdleLabel,
			TimeUnit:  cfg.Widget.TimeUnit,
		},
		Formatter:  utils.NewMoneyFormatter(cfg.Money.Currency, cfg.Money.Symbol),
		IdleTTL:    cfg.Widget.IdleTTL,
		MaxWidgets: cfg.Widget.MaxMounted,
	}, logger, a.Metrics)

	// Widgets the storefront never unmounts are evicted once idle
	sweepCtx, stopSweeper := context.WithCancel(context.WithoutCancel(ctx))
	a.stopSweeper = stopSweeper
	go a.Widgets.RunSweeper(sweepCtx, cfg.Widget.SweepInterval)

	// Create controllers
	controllers := &router.Controllers{
		Widget:     controller.NewWidgetController(a.Widgets, logger),
		Catalog:    controller.NewCatalogController(a.Catalog, logger),
		CartEvents: controller.NewCartEventsController(a.Bus, logger),
		Metrics:    a.Metrics.Handler(),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	a.Handler = mux

	return a, nil
}

// Server returns an http.Server for the app. Shutdown closes the cart bus so
// open event streams end instead of holding the shutdown open.
func (a *App) Server(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(a.Bus.Close)
	return srv
}

func (a *App) watchCatalog(dir string) error {
	w, err := repository.NewCatalogWatcher(dir, func() {
		// Reloads affect widgets mounted from now on
		if err := a.Catalog.Load(context.Background()); err != nil {
			a.logger.Error("WatchCatalog: reload failed", zap.Error(err))
		}
	}, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	a.watcher = w
	a.logger.Info("WatchCatalog: watching catalog directory", zap.String("dir", dir))
	return nil
}

// Close stops background work and releases the database connection
func (a *App) Close() error {
	if a.stopSweeper != nil {
		a.stopSweeper()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.Bus != nil {
		a.Bus.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// logCartChanges records every cart change until the bus closes
func logCartChanges(bus *service.CartBus, logger *zap.Logger) {
	events, cancel := bus.Subscribe(16)
	defer cancel()
	for evt := range events {
		logger.Info("CartChanged: cart updated",
			zap.String("widget_id", evt.WidgetID),
			zap.Int("item_count", evt.Cart.ItemCount))
	}
}
