package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kognisi/insight/internal/api"
	"github.com/kognisi/insight/internal/api/handlers"
	"github.com/kognisi/insight/internal/api/ws"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server backing the learning dashboard.

Endpoints:
  GET  /health                  - Health check
  GET  /api/learners/summary    - Distinct active-learner counts
  GET  /api/learners/platforms  - Per-platform learner distribution
  GET  /api/adoption            - Active/passive adoption breakdown
  GET  /api/hours               - Learning-hour achievement
  GET  /api/content/top         - Top content leaderboard
  GET  /api/data/raw            - Reconciled event table
  GET  /api/data/export         - CSV download
  POST /api/refresh             - Force snapshot rebuild
  GET  /api/ws                  - Snapshot push channel

Example:
  go run ./cmd/insight api
  go run ./cmd/insight api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Wire sources, pipeline, and snapshot store
	ctx := context.Background()
	stack, err := buildStack(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer stack.close()

	// 4. Redis (view cache + refresh rate limiting; no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	viewCache := redis.NewCache(redisClient, "insight")
	limiter := redis.NewRateLimiter(redisClient, "insight")

	// 5. Websocket hub
	hub := ws.NewHub(log)

	// 6. Handlers + router + server
	learnerHandler := handlers.NewLearnerHandler(stack.store, viewCache, log)
	metricsHandler := handlers.NewMetricsHandler(stack.store, viewCache, cfg.HourMultipliers, log)
	dataHandler := handlers.NewDataHandler(stack.store, log)
	refreshHandler := handlers.NewRefreshHandler(stack.store, limiter, hub, log)

	router := api.NewRouter(learnerHandler, metricsHandler, dataHandler, refreshHandler, hub, log)
	server := api.New(cfg, log, router)

	// 7. Warm the snapshot in the background so the first dashboard
	// request does not pay the full pipeline cost
	go func() {
		if _, err := stack.store.Get(context.Background()); err != nil {
			log.WithError(err).Warn("Initial snapshot warm-up failed")
		}
	}()

	// 8. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
