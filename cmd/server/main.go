package main

// @title           Linkup Social Service API
// @version         1.0
// @description     Profiles, identity sync and the friend-request graph for the Linkup mobile app
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	_ "linkup-service/docs"
	"linkup-service/internal/adapters/database"
	"linkup-service/internal/adapters/kafka"
	"linkup-service/internal/api/routes"
	"linkup-service/internal/config"
	"linkup-service/internal/user"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("starting linkup service")

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	var avatars user.AvatarStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := database.NewMinIOClient(cfg.MinIO)
		if err != nil {
			slog.Error("failed to connect to minio", "error", err)
			os.Exit(1)
		}
		avatars = minioClient
	} else {
		slog.Warn("minio not configured, avatar uploads disabled")
	}

	var producer sarama.SyncProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
	} else {
		slog.Warn("kafka not configured, domain events disabled")
	}

	router := routes.NewRouter(db, redisClient, avatars, producer, cfg.JWT.Secret, cfg.Kafka.Topic)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
