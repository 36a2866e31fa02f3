package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/yudhap/patungan/docs"
	"github.com/yudhap/patungan/internal/analytics"
	"github.com/yudhap/patungan/internal/config"
	"github.com/yudhap/patungan/internal/database"
	"github.com/yudhap/patungan/internal/export"
	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/history"
	"github.com/yudhap/patungan/internal/rounding"
	"github.com/yudhap/patungan/internal/settlement"
	"github.com/yudhap/patungan/internal/settlement/split"
	"github.com/yudhap/patungan/pkg/logging"
	mw "github.com/yudhap/patungan/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	// Calculation engine: evaluator + rounding policy + tip strategies
	evaluator := expr.NewEvaluator(slog.Default())
	rounder := rounding.New(cfg.Precision, rounding.Method(cfg.RoundingMethod))
	tipFactory := split.NewTipStrategyFactory()

	calcService := settlement.NewService(evaluator, rounder, tipFactory, slog.Default())
	calcHandler := settlement.NewHandler(calcService)

	// Saved sessions
	historyRepo := history.NewRepository(db)
	historyService := history.NewService(historyRepo, calcService)
	historyHandler := history.NewHandler(historyService)

	// Analytics
	analyticsService := analytics.NewService(evaluator, rounder, slog.Default())
	analyticsHandler := analytics.NewHandler(analyticsService, historyService)

	// Exports
	exportService := export.NewService()
	exportHandler := export.NewHandler(exportService, calcService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/calculations", calcHandler.Routes())
		r.Mount("/sessions", historyHandler.Routes())
		r.Mount("/analytics", analyticsHandler.Routes())
		r.Mount("/exports", exportHandler.Routes())
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
