// Package main Mini App Backend API
//
// @title           Mini App Backend API
// @version         1.0
// @description     API для Telegram Mini App: баланс дней, платежи и админка

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey InitData
// @in header
// @name X-Telegram-Init-Data
// @description Подписанный initData из Telegram Mini App.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/miniapp-backend/internal/app/miniapp"
	"github.com/magabrotheeeer/miniapp-backend/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting miniapp-backend", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := miniapp.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("miniapp-backend stopped gracefully")
}
