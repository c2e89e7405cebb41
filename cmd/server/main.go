package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuryanshuBanerjee/tempmitra/internal/app"
	"github.com/SuryanshuBanerjee/tempmitra/internal/config"
	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/rest"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	log := observability.Init(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	// MongoDB connection
	var db *mongo.Database
	if cfg.StoreBackend == "memory" {
		log.Warn("STORE_BACKEND=memory, chat data will not survive a restart")
	} else {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer mongoClient.Disconnect(ctx)

		// Ping MongoDB
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Error("failed to ping MongoDB", "error", err)
			os.Exit(1)
		}
		log.Info("connected to MongoDB", "database", cfg.MongoDatabase)

		db = mongoClient.Database(cfg.MongoDatabase)
		repository.EnsureIndexes(ctx, db)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Error("failed to ping Redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()

	a := app.New(cfg, db, rdb, prometheus.DefaultRegisterer)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.ChatService.SetBroadcaster(wsHub)

	// Create router with container
	router := rest.NewRouter(&rest.Container{
		AuthService:      a.AuthService,
		ChatService:      a.ChatService,
		ScreeningService: a.ScreeningService,
		AnalyticsService: a.AnalyticsService,
		Classifier:       a.Classifier,
		WSHub:            wsHub,
		Gatherer:         prometheus.DefaultGatherer,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ListenAndServe failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
