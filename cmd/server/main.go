package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"tabula/adapters/postgres"
	"tabula/app"
	"tabula/internal/config"
	"tabula/ports"
	"tabula/ui"
)

func main() {
	// Load .env file if present (ignore errors - production uses real env vars)
	if err := godotenv.Load(); err != nil {
		log.Printf("[Server] no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	var repo ports.DatasetRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatalf("[Server] database initialization failed: %v", err)
		}
		defer db.Close()
		repo = postgres.NewDatasetRepository(db)
		log.Printf("[Server] dataset persistence enabled")
	} else {
		log.Printf("[Server] DATABASE_URL not set, datasets kept in memory only")
	}

	service := app.NewService(cfg.Limits, repo)
	service.SetDefaultPreviewLimit(cfg.Preview.DefaultLimit)
	server := ui.NewServer(service)

	go runOpsServer(cfg.Server.OpsPort)

	log.Printf("[Server] listening on :%s", cfg.Server.Port)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[Server] server stopped: %v", err)
	}
}

// initDatabase connects to PostgreSQL and ensures the schema exists.
func initDatabase(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// runOpsServer serves health and pprof endpoints on a separate port so the
// API surface stays clean.
func runOpsServer(port string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.HandleFunc("/debug/pprof/*", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)

	log.Printf("[Ops] listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Printf("[Ops] server stopped: %v", err)
	}
}
