package main

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

	"github.com/joho/godotenv"
	"github.com/organizer-api/internal/application/navigation"
	"github.com/organizer-api/internal/application/scheduling"
	"github.com/organizer-api/internal/config"
	"github.com/organizer-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/organizer-api/internal/infrastructure/jwt"
	"github.com/organizer-api/internal/infrastructure/push"
	transporthttp "github.com/organizer-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := slog.Default()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// Platform notification gateway (optional — scheduler keeps running
	// against a nop gateway if the platform is unreachable).
	var gateway scheduling.Gateway
	var worker *push.Worker
	if g, err := push.NewGateway(cfg, dynamoClient, logger); err == nil {
		gateway = g
		worker = push.NewWorker(g, cfg.DeliveryInterval)
	} else {
		log.Printf("WARN: notification gateway not available: %v", err)
		gateway = scheduling.NopGateway{}
	}

	// One authorization request at startup; denial is not fatal.
	if granted, err := gateway.RequestAuthorization(context.Background()); err != nil {
		log.Printf("WARN: notification authorization failed: %v", err)
	} else if !granted {
		log.Println("WARN: notification delivery not authorized, reminders will not fire")
	}

	// Deep-link routing: one navigation service for the whole process, with
	// the pending-route handler registered once at startup.
	nav := navigation.NewService(logger)
	nav.RegisterHandler(nav.SetPending)

	deps := &transporthttp.Deps{
		PersonRepo:   dynamo.NewPersonRepo(dynamoClient, cfg.DynamoTables.People),
		NoteRepo:     dynamo.NewNoteRepo(dynamoClient, cfg.DynamoTables.Notes),
		ReminderRepo: dynamo.NewReminderRepo(dynamoClient, cfg.DynamoTables.Reminders),
		Gateway:      gateway,
		Navigation:   nav,
		JWTProvider:  jwtProvider,
		Logger:       logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	if worker != nil {
		go worker.Run(workerCtx)
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
