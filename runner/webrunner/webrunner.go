package webrunner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mapleleads/directory-web/internal/api"
	"github.com/mapleleads/directory-web/internal/api/handlers"
	"github.com/mapleleads/directory-web/internal/cache"
	"github.com/mapleleads/directory-web/internal/directory"
	"github.com/mapleleads/directory-web/internal/renewal"
	"github.com/mapleleads/directory-web/internal/service"
	"github.com/mapleleads/directory-web/internal/settings"
	"github.com/mapleleads/directory-web/runner"
)

// WebRunner hosts the directory web API: listing search with caching,
// the renewal funnel, and the display configuration endpoints.
type WebRunner struct {
	cfg    *runner.Config
	logger *slog.Logger

	srv      *http.Server
	db       *sql.DB
	cache    cache.Cache
	registry *renewal.Registry
}

func New(cfg *runner.Config) (*WebRunner, error) {
	if cfg.Addr == "" {
		return nil, errors.New("address is required")
	}

	logger := runner.NewLogger(cfg.Debug)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.SettingsDBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create settings folder: %w", err)
	}

	db, err := settings.OpenConnection(cfg.SettingsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	if err := settings.RunMigrations(db); err != nil {
		db.Close()

		return nil, fmt.Errorf("run settings migrations: %w", err)
	}

	store := settings.NewStore(settings.NewSQLiteRepository(db), logger)

	cacheImpl := newCache(cfg, logger)

	client := directory.NewClient(cfg.DirectoryAPIURL, cfg.DirectoryAPIKey)
	cached := directory.NewCachedAPI(client, cacheImpl, logger)

	registry := renewal.NewRegistry(cached,
		renewal.WithSessionTTL(cfg.SessionTTL),
		renewal.WithRegistryLogger(logger),
		renewal.WithLookupOptions(renewal.WithLogger(logger)),
	)

	router := api.NewRouter(
		handlers.NewSearchHandler(service.NewSearchService(cached), runner.Telemetry(), logger),
		handlers.NewRenewalHandler(registry, cfg.CheckoutBaseURL, runner.Telemetry(), logger),
		handlers.NewSettingsHandler(store, logger),
		logger,
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", router.Setup(cfg.APIToken))

	if cfg.StaticFolder != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticFolder)))
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &WebRunner{
		cfg:      cfg,
		logger:   logger,
		srv:      srv,
		db:       db,
		cache:    cacheImpl,
		registry: registry,
	}, nil
}

// newCache picks Redis when configured, otherwise an in-process cache.
func newCache(cfg *runner.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		logger.Info("no redis configured, using in-memory listing cache")

		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(cache.Config{
		URL:      cfg.RedisURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory cache", "error", err)

		return cache.NewMemoryCache()
	}

	addr := cfg.RedisAddr
	if addr == "" {
		addr = redactedRedisURL(cfg.RedisURL)
	}
	logger.Info("using redis listing cache", "addr", addr)

	return redisCache
}

// redactedRedisURL strips credentials before the URL reaches a log line.
func redactedRedisURL(url string) string {
	if at := strings.LastIndex(url, "@"); at != -1 {
		if scheme := strings.Index(url, "://"); scheme != -1 {
			return url[:scheme+3] + "***" + url[at:]
		}
	}

	return url
}

// Run serves until the context is canceled, then drains in-flight
// requests.
func (w *WebRunner) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		w.logger.Info("web server listening", "addr", w.cfg.Addr)

		if err := w.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err

			return
		}

		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return <-errChan
}

// Close releases everything the runner owns.
func (w *WebRunner) Close(context.Context) error {
	w.registry.Close()

	if err := w.cache.Close(); err != nil {
		w.logger.Warn("cache close failed", "error", err)
	}

	return w.db.Close()
}
