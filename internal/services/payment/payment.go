// Package payment реализует журнал заявок на оплату: создание,
// список и подтверждение последней pending-заявки.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/miniapp-backend/internal/cache"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// listLimit ограничивает выдачу списка платежей.
const listLimit = 50

// PaymentRepository описывает операции хранилища над платежами.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error)
	ListPayments(ctx context.Context, userID int64, limit int) ([]*models.Payment, error)
	ConfirmLastPayment(ctx context.Context, userID int64) (bool, error)
}

// UserCache нужен, чтобы сбрасывать кэш пользователя после подтверждения,
// которое меняет его баланс.
type UserCache interface {
	Invalidate(key string) error
}

// Service связывает журнал платежей и кэш пользователей.
type Service struct {
	repo  PaymentRepository
	cache UserCache
	log   *slog.Logger
}

// New создает Service.
func New(repo PaymentRepository, userCache UserCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: userCache,
		log:   log,
	}
}

// Create сохраняет заявку в статусе pending. Сумма приходит уже
// посчитанной тарифным калькулятором и здесь не пересчитывается.
func (s *Service) Create(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
	id, err := s.repo.CreatePayment(ctx, userID, days, seats, amount, comment)
	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}
	return id, nil
}

// List возвращает платежи пользователя, новые первыми, не более 50.
func (s *Service) List(ctx context.Context, userID int64) ([]*models.Payment, error) {
	items, err := s.repo.ListPayments(ctx, userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return items, nil
}

// ConfirmLast подтверждает самую свежую pending-заявку пользователя и
// начисляет её дни на баланс. Если подтверждать нечего, возвращает
// false без ошибки.
func (s *Service) ConfirmLast(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.repo.ConfirmLastPayment(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to confirm last payment: %w", err)
	}
	if ok {
		if err := s.cache.Invalidate(cache.UserKey(userID)); err != nil {
			s.log.Warn("failed to invalidate user cache", sl.Err(err))
		}
	}
	return ok, nil
}
