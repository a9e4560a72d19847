// cmd/api/main.go
// Main entry point for the discovery API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/database"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
	"github.com/imadgeboyega/kiekky-discovery/internal/config"
	"github.com/imadgeboyega/kiekky-discovery/internal/discovery"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Caller: cfg.IsDevelopment(),
	})
	if envErr != nil {
		logging.Debug().Err(envErr).Msg("no .env file, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("configuration validation failed")
	}
	if len(cfg.AllowedOrigins) == 0 && cfg.IsProduction() {
		logging.Warn().Msg("no allowed origins configured, accepting requests from any origin")
	}
	logging.Info().
		Str("environment", cfg.Environment).
		Str("store", cfg.StoreBackend).
		Msg("starting discovery API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Stores
	profiles, interactions, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open stores")
	}
	defer closeStores()

	// 4. Optional Redis pool cache
	var cache *discovery.CachedProfileStore
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, candidate pool will not be cached")
		} else {
			defer client.Close()
			cache = discovery.NewCachedProfileStore(profiles, client, cfg.Discovery.PoolCacheTTL)
			profiles = cache
			logging.Info().Dur("ttl", cfg.Discovery.PoolCacheTTL).Msg("candidate pool cache enabled")
		}
	}

	// 5. Match notifiers
	hub := discovery.NewHub(cfg.AllowedOrigins...)
	go hub.Run(ctx)
	notifiers := discovery.Notifiers{hub}

	if cfg.NatsURL != "" {
		publisher, err := discovery.NewNatsMatchPublisher(ctx, cfg.NatsURL)
		if err != nil {
			logging.Warn().Err(err).Msg("nats unavailable, match events will not be published")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			logging.Info().Str("stream", discovery.StreamName).Msg("match events publishing to nats")
		}
	}

	// 6. Service and handlers
	d := cfg.Discovery
	service := discovery.NewService(profiles, interactions, notifiers, discovery.Options{
		MinAge:               d.MinAge,
		MaxAge:               d.MaxAge,
		DefaultMaxDistanceKm: d.DefaultMaxDistanceKm,
		DefaultPageSize:      d.DefaultPageSize,
		MaxPageSize:          d.MaxPageSize,
		OnlineWindow:         d.OnlineWindow,
		ScoreWorkers:         d.ScoreWorkers,
	})
	handler := discovery.NewHandler(service)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	if cache != nil {
		discovery.NewScheduler(cache, d.PoolRefreshInterval).Start(ctx)
	}

	// 7. Router
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	discovery.RegisterRoutes(router, handler, hub, authMiddleware)

	// 8. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
		return
	}
	logging.Info().Msg("server exited gracefully")
}

// openStores picks the backend named in the configuration.
func openStores(ctx context.Context, cfg *config.Config) (discovery.ProfileStore, discovery.InteractionStore, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		store := discovery.NewMemoryStore()
		if cfg.SeedFile != "" {
			if err := seedMemoryStore(store, cfg.SeedFile); err != nil {
				return nil, nil, nil, err
			}
		}
		logging.Warn().Msg("using in-memory store, data is lost on restart")
		return store, store, func() {}, nil

	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := database.NewPostgresDBFromURL(connectCtx, cfg.DatabaseURL, database.DefaultPoolConfig())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(connectCtx, db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logging.Info().Msg("connected to postgres, migrations applied")
		return discovery.NewPostgresProfileStore(db), discovery.NewPostgresInteractionStore(db), closer(db), nil
	}
}

func closer(db *sqlx.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close database")
		}
	}
}

func seedMemoryStore(store *discovery.MemoryStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	profiles, err := discovery.LoadProfilesJSON(f)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		store.PutProfile(p)
	}
	logging.Info().Int("profiles", len(profiles)).Str("file", path).Msg("memory store seeded")
	return nil
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}

// corsMiddleware allows any origin when allowed is empty, otherwise it
// echoes back only the listed origins.
func corsMiddleware(allowed []string) func(http.Handler) http.Handler {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(origins) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
