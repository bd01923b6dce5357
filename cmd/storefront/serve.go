package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/config"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/middleware"
	"github.com/mmynk/storefront/internal/money"
	"github.com/mmynk/storefront/internal/service"
	"github.com/mmynk/storefront/internal/session"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/internal/storage/memory"
	"github.com/mmynk/storefront/internal/storage/redis"
	"github.com/mmynk/storefront/internal/storage/sqlite"
	"github.com/mmynk/storefront/internal/storefront"
)

const janitorInterval = time.Minute

var serveFlags struct {
	port    int
	dbPath  string
	static  string
	backend string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	Long: `Serves the Connect API, the static storefront page, /metrics and /healthz.

Settings come from the environment (STORE_NAME, WPP_NUMBER, PORT, DB_PATH,
STATIC_PATH, STORAGE, REDIS_URL, SESSION_SECRET, ...); flags override them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "listen port")
	serveCmd.Flags().StringVar(&serveFlags.dbPath, "db", "", "SQLite database path")
	serveCmd.Flags().StringVar(&serveFlags.static, "static", "", "static files directory")
	serveCmd.Flags().StringVar(&serveFlags.backend, "storage", "", "storage backend: sqlite, redis or memory")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveFlags.port != 0 {
		cfg.Port = serveFlags.port
	}
	if serveFlags.dbPath != "" {
		cfg.DBPath = serveFlags.dbPath
	}
	if serveFlags.static != "" {
		cfg.StaticPath = serveFlags.static
	}
	if serveFlags.backend != "" {
		cfg.Storage = serveFlags.backend
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		if cfg.SessionSecret, err = config.RandomSecret(); err != nil {
			return err
		}
		slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	source := catalog.NewSource(cat)

	formatter, err := money.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	manager := storefront.NewManager(storefront.Env{
		Storage:   store,
		Catalog:   source,
		Formatter: formatter,
		StoreName: cfg.StoreName,
		Phone:     cfg.Phone,
		Metrics:   m,
	})
	svc := service.NewStorefrontService(manager, source, service.Info{
		StoreName: cfg.StoreName,
		Phone:     cfg.Phone,
		Locale:    cfg.Locale,
		Formatter: formatter,
	})
	tokens := session.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)

	mux := http.NewServeMux()
	apiPath, apiHandler := service.NewStorefrontServiceHandler(svc, connect.WithInterceptors(
		middleware.Session(tokens),
		middleware.LoggingInterceptor(),
	))
	mux.Handle(apiPath, apiHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// h2c serves HTTP/2 without TLS for Connect clients.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Storefront server starting", "address", server.Addr, "store", cfg.StoreName, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return manager.Janitor(ctx, janitorInterval, cfg.SessionIdle, cfg.SessionRetention)
	})
	if cfg.CatalogPath != "" {
		watcher := catalog.NewWatcher(cfg.CatalogPath, source, func(_ *catalog.Catalog, err error) {
			m.CatalogReload(err)
		})
		g.Go(func() error { return watcher.Run(ctx) })
	}
	return g.Wait()
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.BackendRedis:
		store, err := redis.New(cfg.RedisURL, cfg.SessionRetention)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", "redis")
		return store, nil
	case config.BackendMemory:
		slog.Warn("Using in-memory storage, carts are lost on restart")
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
		return store, nil
	}
}

// staticHandler serves the storefront page. Unknown paths get index.html.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if service.IsProcedure(r.URL.Path) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access. The session token
// header must be exposed for the page to keep its session.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.SessionTokenHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
