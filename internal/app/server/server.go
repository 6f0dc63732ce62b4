package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpidash/internal/domain/audit"
	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/directory"
	"kpidash/internal/domain/kpi"
	"kpidash/internal/domain/notifications"
	"kpidash/internal/domain/reward"
	"kpidash/internal/platform/config"
	"kpidash/internal/platform/db"
	"kpidash/internal/platform/jobs"
	"kpidash/internal/platform/metrics"
	audithandler "kpidash/internal/transport/http/handlers/audit"
	authhandler "kpidash/internal/transport/http/handlers/auth"
	directoryhandler "kpidash/internal/transport/http/handlers/directory"
	kpihandler "kpidash/internal/transport/http/handlers/kpi"
	notificationshandler "kpidash/internal/transport/http/handlers/notifications"
	reportshandler "kpidash/internal/transport/http/handlers/reports"
	rewardhandler "kpidash/internal/transport/http/handlers/reward"
	"kpidash/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	authStore := auth.NewStore(pool)
	directoryStore := directory.NewStore(pool)
	kpiStore := kpi.NewStore(pool)
	rewardStore := reward.NewStore(pool)
	rewardService := reward.NewService(rewardStore)

	notifier := notifications.New(pool)
	auditor := audit.New(pool)
	collector := metrics.New()
	jobRunner := jobs.New(pool, cfg, rewardService)
	jobRunner.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			directoryhandler.NewHandler(directoryStore).RegisterRoutes(r)
			kpihandler.NewHandler(kpiStore, notifier).RegisterRoutes(r)
			rewardhandler.NewHandler(rewardService, jobRunner, auditor, notifier, collector, cfg.StatementDir).RegisterRoutes(r)
			notificationshandler.NewHandler(notifier).RegisterRoutes(r)
			reportshandler.NewHandler(pool, rewardService).RegisterRoutes(r)
			audithandler.NewHandler(auditor).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Jobs:    jobRunner,
		Metrics: collector,
	}, nil
}

func (a *App) Run() error {
	log.Printf("kpidash server listening on %s", a.Config.Addr)
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	a.DB.Close()
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
