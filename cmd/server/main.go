package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/assets"
	"github.com/qazimabbas/LostnFound/internal/config"
	"github.com/qazimabbas/LostnFound/internal/database"
	"github.com/qazimabbas/LostnFound/internal/engine"
	"github.com/qazimabbas/LostnFound/internal/handlers"
	"github.com/qazimabbas/LostnFound/internal/middleware"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	mdb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalw("failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mdb.Close(context.Background()); err != nil {
			log.Warnw("failed to close MongoDB connection", "error", err)
		}
	}()
	log.Infow("connected to MongoDB", "database", cfg.Database.Name)

	relay := assets.NewCloudinaryRelay(
		cfg.Assets.CloudName,
		cfg.Assets.APIKey,
		cfg.Assets.APISecret,
		log,
	)

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, mdb, mdb, mdb, relay, metrics, log)

	sessions := middleware.NewSessions(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, !cfg.Debug)

	server := handlers.NewServer(system, eng, sessions, metrics, mdb, log, cfg.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	case sig := <-stop:
		log.Infow("shutting down", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Errorw("graceful shutdown failed", "error", err)
		}
	}

	log.Info("server stopped")
}
