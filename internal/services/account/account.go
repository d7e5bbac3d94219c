// Package account реализует операции над записями пользователей:
// создание при первом обращении, чтение с кэшированием, изменение
// баланса дней и обновление профиля.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/miniapp-backend/internal/cache"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// UserRepository описывает операции хранилища над пользователями.
type UserRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64, username *string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	AddDays(ctx context.Context, userID int64, days int) error
	SubDays(ctx context.Context, userID int64, days int) error
	SetDays(ctx context.Context, userID int64, days int) error
	UpdateProfile(ctx context.Context, userID int64, username, comment *string) error
}

// UserCache описывает кэш записей пользователей.
type UserCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const userCacheTTL = 5 * time.Minute

// Service связывает хранилище пользователей и кэш.
type Service struct {
	repo  UserRepository
	cache UserCache
	log   *slog.Logger
}

// New создает Service.
func New(repo UserRepository, userCache UserCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: userCache,
		log:   log,
	}
}

// GetOrCreate создает пользователя при первом обращении либо обновляет
// его username. Баланс и признак администратора при повторных вызовах
// не меняются. Свежая запись кладётся в кэш.
func (s *Service) GetOrCreate(ctx context.Context, userID int64, username *string) (*models.User, error) {
	u, err := s.repo.GetOrCreateUser(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	if err := s.cache.Set(cache.UserKey(userID), u, userCacheTTL); err != nil {
		s.log.Warn("failed to cache user", sl.Err(err))
	}
	return u, nil
}

// Get возвращает пользователя, сначала заглядывая в кэш.
func (s *Service) Get(ctx context.Context, userID int64) (*models.User, error) {
	var cached models.User
	found, err := s.cache.Get(cache.UserKey(userID), &cached)
	if err != nil {
		s.log.Warn("failed to read user from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.cache.Set(cache.UserKey(userID), u, userCacheTTL); err != nil {
		s.log.Warn("failed to cache user", sl.Err(err))
	}
	return u, nil
}

// AddDays начисляет дни на баланс пользователя.
func (s *Service) AddDays(ctx context.Context, userID int64, days int) error {
	if err := s.repo.AddDays(ctx, userID, days); err != nil {
		return fmt.Errorf("failed to add days: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// SubDays списывает дни с баланса пользователя.
func (s *Service) SubDays(ctx context.Context, userID int64, days int) error {
	if err := s.repo.SubDays(ctx, userID, days); err != nil {
		return fmt.Errorf("failed to sub days: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// SetDays выставляет баланс пользователя.
func (s *Service) SetDays(ctx context.Context, userID int64, days int) error {
	if err := s.repo.SetDays(ctx, userID, days); err != nil {
		return fmt.Errorf("failed to set days: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// UpdateProfile обновляет username и комментарий пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, username, comment *string) error {
	if err := s.repo.UpdateProfile(ctx, userID, username, comment); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	s.invalidate(userID)
	return nil
}

func (s *Service) invalidate(userID int64) {
	if err := s.cache.Invalidate(cache.UserKey(userID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
}
