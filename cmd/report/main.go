// ==============================================================================
// REPORTING API - cmd/report/main.go
// ==============================================================================
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"txreport/internal/country"
	"txreport/internal/handler"
	"txreport/internal/middleware"
	"txreport/internal/report"
	"txreport/internal/repository/sqlstore"
	"txreport/pkg/cache"
	"txreport/pkg/config"
	"txreport/pkg/logger"
	"txreport/pkg/validator"
)

const (
	serviceName = "Transaction Reporting API"
	version     = "1.0.0"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithWriter("report-service", os.Stdout, cfg.Log.Level)

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting Reporting Service", map[string]interface{}{
		"port":    cfg.Server.Port,
		"backend": cfg.Database.Backend,
		"country": cfg.Country.Source,
	})

	ctx := context.Background()

	if err := sqlstore.Migrate(cfg.Database); err != nil {
		log.Fatal("Failed to run migrations", map[string]interface{}{"error": err.Error()})
	}

	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	defer db.Close()
	log.Info("Database connected", nil)

	var (
		reportCache cache.Cache
		redisCache  *cache.RedisCache
		cachePinger handler.Pinger
	)
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, using in-process cache", map[string]interface{}{"error": err.Error()})
			redisCache = nil
		} else {
			defer redisCache.Close()
			cachePinger = redisCache
			log.Info("Redis connected", nil)
		}
	}
	if cfg.Report.CacheEnabled {
		if redisCache != nil {
			reportCache = redisCache
		} else {
			reportCache = cache.NewMemoryCache(cfg.Report.CacheSize)
		}
	}

	countries, err := countrySource(ctx, cfg.Country)
	if err != nil {
		log.Fatal("Failed to configure country lookup", map[string]interface{}{"error": err.Error()})
	}

	val := validator.New()
	resolver := report.NewResolver(val, cfg.Report.Location())

	userRepo := sqlstore.NewUserRepository(db)
	txRepo := sqlstore.NewTransactionRepository(db)

	reportService := report.NewService(txRepo, countries, reportCache, cfg.Report.CacheTTL, resolver.Location(), log)

	reportHandler := handler.NewReportHandler(resolver, reportService, log)
	usersHandler := handler.NewUsersHandler(userRepo, val, log)
	txHandler := handler.NewTransactionsHandler(txRepo, val, log)
	systemHandler := handler.NewSystemHandler(serviceName, version, txRepo, cachePinger, log)

	r := mux.NewRouter()

	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)

	r.HandleFunc("/", systemHandler.Root).Methods("GET", "OPTIONS")
	r.HandleFunc("/health", systemHandler.Health).Methods("GET", "OPTIONS")
	r.HandleFunc("/ready", systemHandler.Ready).Methods("GET", "OPTIONS")

	api := r.PathPrefix("/").Subrouter()
	if cfg.Auth.JWTSecret != "" {
		api.Use(middleware.NewAuthMiddleware(cfg.Auth.JWTSecret).Authenticate)
	} else {
		log.Warn("AUTH_JWT_SECRET not set, data endpoints are unauthenticated", nil)
	}
	if redisCache != nil && cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(redisCache.Client(), cfg.Server.RateLimitPerMinute, time.Minute, log)
		api.Use(limiter.Limit)
	}

	api.HandleFunc("/users", usersHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/transactions", txHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/report", reportHandler.Report).Methods("GET", "OPTIONS")
	api.HandleFunc("/report/by-country", reportHandler.ByCountry).Methods("GET", "OPTIONS")

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Reporting Service started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Reporting Service...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Reporting Service forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Reporting Service stopped gracefully", nil)
}

func countrySource(ctx context.Context, cfg config.CountryConfig) (country.Source, error) {
	if cfg.Source == "sheets" {
		return country.NewSheetsSource(ctx, country.SheetsConfig{
			SpreadsheetID:      cfg.SpreadsheetID,
			Range:              cfg.SheetRange,
			ServiceAccountJSON: cfg.ServiceAccountJSON,
			ServiceAccountFile: cfg.ServiceAccountFile,
		})
	}
	return country.NewCSVSource(cfg.CSVPath, []rune(cfg.CSVDelimiter)[0]), nil
}
