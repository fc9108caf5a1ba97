package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/spendsight/backend/docs"
	"github.com/spendsight/backend/internal/analysis"
	"github.com/spendsight/backend/internal/config"
	"github.com/spendsight/backend/internal/dataset"
	"github.com/spendsight/backend/internal/db"
	"github.com/spendsight/backend/internal/handler"
	"github.com/spendsight/backend/internal/logger"
	"github.com/spendsight/backend/internal/receipt"
	"github.com/spendsight/backend/internal/repository"
	"github.com/spendsight/backend/internal/scheduler"
	"github.com/spendsight/backend/internal/service"
)

// @title SpendSight API
// @version 1.0
// @description Spending anomaly detection API: analyzes categorized receipts, compares users against their peers, and drills down into anomalous products.

// @contact.name API Support
// @contact.email support@spendsight.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg := config.Load()

	// JSON in production, text otherwise
	logger.Init(cfg.Env)
	log := logger.Logger()

	fatal := func(msg string, err error) {
		log.Error(msg, slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbConn, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := db.RunMigrations(dbConn); err != nil {
		fatal("Failed to run migrations", err)
	}

	// Load the spending dataset into memory
	store := dataset.NewStore(cfg.DatasetPath, log)
	if err := store.Load(context.Background()); err != nil {
		fatal("Failed to load spending dataset", err)
	}

	// Receipt registry client and product resolver
	receiptClient := receipt.NewClient(cfg.ReceiptAPIURL, cfg.ReceiptTimeout)
	productResolver := receipt.NewResolver(receiptClient, cfg.ReceiptConcurrency, log)

	pipeline := analysis.NewPipeline(productResolver, log)

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbConn)
	adviceRepo := repository.NewAdviceRepository(dbConn)

	// Initialize services
	adviceService := service.NewAdviceService(store, pipeline, adviceRepo, cfg.AnalysisMonth, log)
	savingsService := service.NewSavingsService(store, productResolver, log)
	userService := service.NewUserService(userRepo)
	stockService := service.NewStockService(cfg.AlphaVantageURL, cfg.AlphaVantageAPIKey, cfg.StockTimeout, log)

	// Initialize handlers
	adviceHandler := handler.NewAdviceHandler(adviceService, savingsService)
	userHandler := handler.NewUserHandler(userService)
	receiptHandler := handler.NewReceiptHandler()
	stockHandler := handler.NewStockHandler(stockService)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Analysis endpoints
	r.Get("/api/advices", adviceHandler.GetAdvice)
	r.Get("/api/get_last_advice", adviceHandler.GetLastAdvice)
	r.Get("/api/get_anomaly_product", adviceHandler.GetAnomalyProduct)
	r.Get("/api/get_expense_categories", adviceHandler.GetExpenseCategories)
	r.Get("/api/get_discounted_categories", adviceHandler.GetDiscountedCategories)

	// Users and receipts
	r.Get("/api/users/{id}", userHandler.Get)
	r.Post("/api/receipts", receiptHandler.Create)

	// Stocks
	r.Get("/api/stocks/growth", stockHandler.Growth)

	// Scheduled dataset refresh
	var refreshScheduler *scheduler.Scheduler
	if cfg.RefreshEnabled {
		schedCfg := scheduler.DefaultConfig()
		schedCfg.Schedule = cfg.RefreshSchedule
		schedCfg.Enabled = cfg.RefreshEnabled
		refreshScheduler = scheduler.New(schedCfg, store, log)
		if err := refreshScheduler.Start(); err != nil {
			log.Error("Failed to start refresh scheduler", slog.String("error", err.Error()))
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down server...")

		if refreshScheduler != nil {
			ctx := refreshScheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Info("Server starting", slog.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server failed", slog.String("error", err.Error()))
	}
}
