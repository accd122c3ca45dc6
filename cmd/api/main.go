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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/config"
	"github.com/zhouzirui/z-chat/backend/internal/handler"
	"github.com/zhouzirui/z-chat/backend/internal/logging"
	"github.com/zhouzirui/z-chat/backend/internal/model/profile"
	"github.com/zhouzirui/z-chat/backend/internal/service/ai"
	"github.com/zhouzirui/z-chat/backend/internal/service/chat"
	"github.com/zhouzirui/z-chat/backend/internal/service/dialog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Output)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	profiles, err := loadProfiles(cfg.Bot.ProfileDir)
	if err != nil {
		logger.Fatal("failed to load profiles", zap.Error(err))
	}
	logger.Info("profiles loaded", zap.Int("count", len(profiles.List())))

	generator, err := ai.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize reply generator", zap.Error(err))
	}

	bot := chat.NewService(
		generator,
		func() string { return profiles.Random().Text },
		dialog.NewLRUStore(cfg.Bot.StorageSize),
		chat.WithMaxContextLen(cfg.Bot.MaxContextLen),
		chat.WithLogger(logger),
	)

	router := handler.NewRouter(bot, handler.Options{
		StaticDir:     cfg.Server.StaticDir,
		SecureCookies: cfg.Server.SecureCookies,
	}, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func loadProfiles(dir string) (profile.Store, error) {
	if dir == "" {
		return profile.NewMemoryStore(profile.Seed()), nil
	}
	items, err := profile.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return profile.NewMemoryStore(items), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}

	logger.Info("chat backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("chat backend stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
