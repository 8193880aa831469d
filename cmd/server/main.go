package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitcoach/internal/api"
	"alcyxob/fitcoach/internal/assistant"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/digest"
	"alcyxob/fitcoach/internal/repository/mongo"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/storage"
	"alcyxob/fitcoach/internal/telegram"

	"github.com/gin-gonic/gin"
)

// @title Fitcoach API
// @version 1.0
// @description Trainer dashboard, client views, onboarding and assistant for the fitness-coaching app.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Starting Fitcoach Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	production := cfg.Server.IsProduction()
	log.Printf("Configuration loaded (env=%s).", cfg.Server.Env)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Printf("ERROR: Index creation incomplete: %v", err)
			return
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName == "" {
		log.Println("WARN: s3.bucket_name is empty, exercise videos are disabled")
	} else {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	}

	// --- Telegram ---
	messenger, botAPI := telegram.NewMessenger(cfg.Telegram)

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	chatRepo := mongo.NewMongoChatRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, clientRepo, profileRepo, chatRepo, service.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		JWTExpiration: cfg.JWT.Expiration,
		BotToken:      cfg.Telegram.BotToken,
		LoginMaxAge:   cfg.Telegram.LoginMaxAge,
	})
	clientService := service.NewClientService(userRepo, clientRepo, chatRepo, fileStorage, messenger)
	trainerService := service.NewTrainerService(userRepo, clientRepo, chatRepo, fileStorage, messenger)
	assistantService := service.NewAssistantService(clientRepo, assistant.NewResponder(nil))

	// --- Background workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.Telegram.Poll && botAPI != nil {
		listener := telegram.NewListener(botAPI, messenger, chatRepo, assistantService)
		go listener.Run(workerCtx)
	}

	if cfg.Digest.Enabled {
		scheduler, err := digest.Schedule(cfg.Digest.Schedule, digest.New(userRepo, clientRepo, chatRepo, messenger))
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		defer scheduler.Stop()
	}

	// --- Initialize Gin Engine ---
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, production, api.Services{
		Auth:      authService,
		Client:    clientService,
		Trainer:   trainerService,
		Assistant: assistantService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopWorkers()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
