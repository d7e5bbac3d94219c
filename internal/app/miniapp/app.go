package miniapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/miniapp-backend/internal/cache"
	"github.com/magabrotheeeer/miniapp-backend/internal/config"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/initdata"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/pricing"
	"github.com/magabrotheeeer/miniapp-backend/internal/migrations"
	accountservice "github.com/magabrotheeeer/miniapp-backend/internal/services/account"
	adminservice "github.com/magabrotheeeer/miniapp-backend/internal/services/admin"
	paymentservice "github.com/magabrotheeeer/miniapp-backend/internal/services/payment"
	"github.com/magabrotheeeer/miniapp-backend/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: хранилище, миграции, кэш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	verifier := initdata.New(cfg.Telegram.BotToken)
	calculator := pricing.New(cfg.Pricing.BasePrice, cfg.Pricing.Discounts)

	accountService := accountservice.New(db, cacheRedis, logger)
	paymentService := paymentservice.New(db, cacheRedis, logger)
	adminService := adminservice.New(db, cfg.Telegram.BootstrapAdminIDs, cfg.BackupDir, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, verifier, calculator, accountService, paymentService, adminService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
