package main

import (
	"context"
	"log/slog"
	"net/http"
	"netattend/internal/config"
	headcountGet "netattend/internal/http-server/handlers/headcount/get"
	profileGet "netattend/internal/http-server/handlers/profile/get"
	profileUpdate "netattend/internal/http-server/handlers/profile/update"
	recordDelete "netattend/internal/http-server/handlers/records/delete"
	recordExport "netattend/internal/http-server/handlers/records/export"
	recordGet "netattend/internal/http-server/handlers/records/get"
	sessionCheckin "netattend/internal/http-server/handlers/session/checkin"
	sessionCheckout "netattend/internal/http-server/handlers/session/checkout"
	sessionGet "netattend/internal/http-server/handlers/session/get"
	statsGet "netattend/internal/http-server/handlers/stats/get"
	subjectCreate "netattend/internal/http-server/handlers/subjects/create"
	subjectDelete "netattend/internal/http-server/handlers/subjects/delete"
	subjectExtract "netattend/internal/http-server/handlers/subjects/extract"
	subjectGet "netattend/internal/http-server/handlers/subjects/get"
	subjectUpdate "netattend/internal/http-server/handlers/subjects/update"
	zoneCreate "netattend/internal/http-server/handlers/zones/create"
	zoneDelete "netattend/internal/http-server/handlers/zones/delete"
	zoneGet "netattend/internal/http-server/handlers/zones/get"
	"netattend/internal/inference"
	"netattend/internal/lock"
	svc "netattend/internal/service"
	"netattend/internal/storage"
	"netattend/internal/storage/memstore"
	"netattend/internal/storage/postgres"
	"netattend/internal/storage/redisstore"
	slogpretty "netattend/pkg/handlers/slogPretty"
	"netattend/pkg/middleware/mwLogger"
	"netattend/pkg/sl"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env), slog.String("storage", cfg.StorageBackend))
	log.Debug("Debug messages are enabled")

	kv, err := newKV(cfg)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	store := storage.New(kv)

	var locker lock.Locker
	if cfg.StorageBackend == "memory" {
		locker = lock.Noop{}
	} else {
		locker, err = lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
	}

	model := inference.New(cfg.Inference.BaseURL, cfg.Inference.Timeout, cfg.Inference.Skip)
	if cfg.Inference.Skip {
		log.Warn("Inference skip mode enabled, classifier returns canned verdicts")
	}

	service := svc.NewService(store, locker, model, cfg.Inference.Timeout)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Subjects
	router.Post("/subjects", subjectCreate.New(log, service))
	router.Get("/subjects", subjectGet.New(log, service))
	router.Get("/subjects/{id}", subjectGet.New(log, service))
	router.Put("/subjects/{id}", subjectUpdate.New(log, service))
	router.Delete("/subjects/{id}", subjectDelete.New(log, service))
	router.Post("/subjects/extract", subjectExtract.New(log, service))

	// Session
	router.Post("/checkin", sessionCheckin.New(log, service))
	router.Post("/checkout", sessionCheckout.New(log, service))
	router.Get("/session", sessionGet.New(log, service))

	// Records
	router.Get("/records", recordGet.New(log, service))
	router.Delete("/records/{id}", recordDelete.New(log, service))
	router.Get("/records/export", recordExport.New(log, service))

	// Stats
	router.Get("/stats", statsGet.New(log, service))

	// Wifi zones
	router.Post("/zones", zoneCreate.New(log, service))
	router.Get("/zones", zoneGet.New(log, service))
	router.Delete("/zones/{id}", zoneDelete.New(log, service))

	// Profile
	router.Get("/profile", profileGet.New(log, service))
	router.Put("/profile", profileUpdate.New(log, service))

	// Headcount
	router.Get("/headcount", headcountGet.New(log, service))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := service.Flush(ctx); err != nil {
		log.Error("Failed to flush state", sl.Err(err))
	} else {
		log.Info("State flushed")
	}

	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func newKV(cfg *config.Config) (storage.KV, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return postgres.New(cfg.StoragePath)
	case "memory":
		return memstore.New(), nil
	default:
		return redisstore.New(cfg.RedisAddr)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		// Unknown env values get the prod handler rather than a nil logger.
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
