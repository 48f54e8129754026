package main

import (
	"fmt"
	"net/http"
	"os"

	"cryvia/internal/coingecko"
	"cryvia/internal/config"
	"cryvia/internal/database"
	"cryvia/internal/logger"
	"cryvia/internal/market"
	"cryvia/internal/portfolio"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// One symbol table shared by the price client and the portfolio service
	table := market.Default()
	prices := coingecko.NewClient(&cfg.CoinGecko, table, log.Named("coingecko"))

	svc := portfolio.NewService(db, prices, table, &cfg.Simulator, log.Named("portfolio"))

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log.Named("api"), svc)

	mux.HandleFunc("/api/login", apiHandler.LoginHandler)
	mux.HandleFunc("/api/portfolio", apiHandler.PortfolioHandler)
	mux.HandleFunc("/api/trade", apiHandler.TradeHandler)
	mux.HandleFunc("/api/history", apiHandler.HistoryHandler)
	mux.HandleFunc("/api/leaderboard", apiHandler.LeaderboardHandler)
	mux.HandleFunc("/health", apiHandler.HealthHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting web server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
