package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/tradewise/backend/internal/config"
	"github.com/zhouzirui/tradewise/backend/internal/handler"
	chatHandler "github.com/zhouzirui/tradewise/backend/internal/handler/chat"
	"github.com/zhouzirui/tradewise/backend/internal/logging"
	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	marketModel "github.com/zhouzirui/tradewise/backend/internal/model/market"
	"github.com/zhouzirui/tradewise/backend/internal/service/ai"
	"github.com/zhouzirui/tradewise/backend/internal/service/auth"
	"github.com/zhouzirui/tradewise/backend/internal/service/chat"
	"github.com/zhouzirui/tradewise/backend/internal/service/history"
	"github.com/zhouzirui/tradewise/backend/internal/service/market"
	"github.com/zhouzirui/tradewise/backend/internal/service/notification"
	"github.com/zhouzirui/tradewise/backend/internal/service/trading"
	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", "error", envErr)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	slots, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return err
	}
	defer slots.Close()
	logger.Info("session storage ready", "backend", cfg.Storage.Backend)

	notifications := notification.NewService()
	registry := auth.NewRegistry(slots, notifications.NotifierFor, auth.Options{Delay: cfg.Simulation.AuthDelay})

	store := marketModel.NewMemoryStore()
	marketSvc := market.NewService(store, market.Options{QuoteDelay: cfg.Simulation.QuoteDelay})
	historySvc := history.NewService()
	tradingSvc := trading.NewService(store, historySvc, registry, notifications.NotifierFor, trading.Options{
		Delay: cfg.Simulation.OrderDelay,
	})

	var chatModel model.BaseChatModel
	if cfg.AI.Enabled() {
		arkModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warn("failed to initialize Ark model, falling back to keyword replies", "error", err)
		} else {
			chatModel = arkModel
			logger.Info("Ark chat model initialized", "model", cfg.AI.Model)
		}
	} else {
		logger.Info("Ark credentials not configured, using keyword replies")
	}

	aiSvc, err := ai.NewService(ctx, chatModel, ai.Options{StreamResponse: cfg.AI.StreamResponse})
	if err != nil {
		logger.Warn("assistant unavailable", "error", err)
		aiSvc = nil
	}

	router := handler.NewRouter(handler.Services{
		Auth:          registry,
		Market:        marketSvc,
		Trading:       tradingSvc,
		History:       historySvc,
		Notifications: notifications,
		Chat:          chat.NewService(),
		AI:            aiSvc,
	}, handler.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthLimiter:    middleware.NewDeviceLimiter(cfg.RateLimit.AuthPerMinute),
		Chat:           chatHandler.Options{ReplyDelay: cfg.Simulation.ChatDelay},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	logger.Info("TradeWise backend listening", "addr", cfg.Server.Addr)
	return runServer(ctx, srv)
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
