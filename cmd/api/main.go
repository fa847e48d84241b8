package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	"github.com/tablero-app/planner-backend/config"
	"github.com/tablero-app/planner-backend/internal/assistant"
	fbinit "github.com/tablero-app/planner-backend/internal/auth"
	"github.com/tablero-app/planner-backend/internal/bootstrap"
	"github.com/tablero-app/planner-backend/internal/maintenance"
	"github.com/tablero-app/planner-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database (sql): %v", err)
	}
	defer sqlDB.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	var authClient *auth.Client
	if cfg.App.Environment == "production" || cfg.Firebase.CredentialsFile != "" {
		authClient, err = fbinit.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	} else {
		log.Println("Firebase auth disabled, using X-User-Id header (development only)")
	}

	assistantClient := assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.Model, cfg.Assistant.APIKey)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "planner-api",
		Version:        cfg.App.Version,
		DB:             pool,
		Redis:          rdb,
		FirebaseAuth:   authClient,
		Assistant:      assistantClient,
		DailyChatLimit: int64(cfg.Assistant.DailyChatLimit),
	})

	scheduler := maintenance.NewScheduler(postgres.NewRetentionStore(sqlDB))
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("planner-api listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
