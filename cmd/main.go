package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dtmapi/internal/api"
	"dtmapi/internal/auth"
	"dtmapi/internal/config"
	"dtmapi/internal/database"
	"dtmapi/internal/image"
	"dtmapi/internal/key"
	"dtmapi/internal/logger"
	"dtmapi/internal/mailer"
	"dtmapi/internal/metrics"
	"dtmapi/internal/repository"
	"dtmapi/internal/storage"
	"dtmapi/internal/token"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("Server error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// Create a context for initialization.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.ConnectMongoDB(ctx, cfg.Mongo, zlog)
	if err != nil {
		return fmt.Errorf("initialization error: %w", err)
	}
	defer func() {
		if err := store.Disconnect(context.Background()); err != nil {
			zlog.Error("Error disconnecting from DB", zap.Error(err))
		}
	}()
	if err := store.EnsureIndexes(ctx, zlog); err != nil {
		return err
	}

	signer, err := token.LoadSigner(cfg.Auth.PrivateKeyPath, cfg.Auth.PublicKeyPath, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("load signing keys: %w", err)
	}
	files, err := storage.New(ctx, cfg.Storage, zlog)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	users := repository.NewUserRepository(store, zlog)
	authTokens := repository.NewTokenRepository(store, zlog)
	emails := repository.NewEmailRepository(store, zlog)
	images := repository.NewImageRepository(store, zlog)
	channels := repository.NewChannelTokenRepository(store, zlog)

	emailSvc := mailer.NewService(mailer.NewSMTPSender(cfg.SMTP, zlog), emails, cfg.Email, cfg.API.Scheme, zlog)
	authSvc := auth.NewService(users, authTokens, emails, emailSvc, signer, cfg.Auth, cfg.Email, zlog)
	imageSvc := image.NewService(images, files, cfg.Storage.MaxUploadBytes, zlog)
	keySvc := key.NewService(channels, signer, cfg.Key.RevokePath, zlog)

	h := api.NewHandler(authSvc, imageSvc, keySvc, metrics.NewManager("dtm"), api.Options{
		Scheme:         cfg.API.Scheme,
		StaticDir:      cfg.API.StaticDir,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}, zlog)
	router := api.NewRouter(h)

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins(strings.Split(cfg.API.CORSOrigins, ",")),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "token"}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(zap.NewStdLog(zlog.Named("Recovery"))))(handler)
	handler = handlers.CombinedLoggingHandler(logger.NewWriter(zlog.Named("Access")), handler)

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	srv := &http.Server{
		Handler:      handler,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("Server running", zap.String("addr", addr), zap.String("env", cfg.API.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	zlog.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zlog.Info("Server exiting gracefully.")
	return nil
}
