package account_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
	"github.com/magabrotheeeer/miniapp-backend/internal/services/account"
)

type mockRepo struct {
	GetOrCreateUserFunc func(ctx context.Context, userID int64, username *string) (*models.User, error)
	GetUserFunc         func(ctx context.Context, userID int64) (*models.User, error)
	AddDaysFunc         func(ctx context.Context, userID int64, days int) error
	SubDaysFunc         func(ctx context.Context, userID int64, days int) error
	SetDaysFunc         func(ctx context.Context, userID int64, days int) error
	UpdateProfileFunc   func(ctx context.Context, userID int64, username, comment *string) error
}

func (m *mockRepo) GetOrCreateUser(ctx context.Context, userID int64, username *string) (*models.User, error) {
	return m.GetOrCreateUserFunc(ctx, userID, username)
}

func (m *mockRepo) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return m.GetUserFunc(ctx, userID)
}

func (m *mockRepo) AddDays(ctx context.Context, userID int64, days int) error {
	return m.AddDaysFunc(ctx, userID, days)
}

func (m *mockRepo) SubDays(ctx context.Context, userID int64, days int) error {
	return m.SubDaysFunc(ctx, userID, days)
}

func (m *mockRepo) SetDays(ctx context.Context, userID int64, days int) error {
	return m.SetDaysFunc(ctx, userID, days)
}

func (m *mockRepo) UpdateProfile(ctx context.Context, userID int64, username, comment *string) error {
	return m.UpdateProfileFunc(ctx, userID, username, comment)
}

type mockCache struct {
	GetFunc        func(key string, result any) (bool, error)
	SetFunc        func(key string, value any, expiration time.Duration) error
	InvalidateFunc func(key string) error
}

func (m *mockCache) Get(key string, result any) (bool, error) {
	if m.GetFunc == nil {
		return false, nil
	}
	return m.GetFunc(key, result)
}

func (m *mockCache) Set(key string, value any, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(key, value, expiration)
}

func (m *mockCache) Invalidate(key string) error {
	if m.InvalidateFunc == nil {
		return nil
	}
	return m.InvalidateFunc(key)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestGetOrCreate_CachesResult(t *testing.T) {
	repo := &mockRepo{
		GetOrCreateUserFunc: func(ctx context.Context, userID int64, username *string) (*models.User, error) {
			return &models.User{UserID: userID}, nil
		},
	}

	var setKey string
	cache := &mockCache{
		SetFunc: func(key string, value any, exp time.Duration) error {
			setKey = key
			return nil
		},
	}
	svc := account.New(repo, cache, makeLogger())

	u, err := svc.GetOrCreate(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.UserID)
	assert.Equal(t, "user:42", setKey)
}

func TestGetOrCreate_CacheErrorIsNotFatal(t *testing.T) {
	repo := &mockRepo{
		GetOrCreateUserFunc: func(ctx context.Context, userID int64, username *string) (*models.User, error) {
			return &models.User{UserID: userID}, nil
		},
	}
	cache := &mockCache{
		SetFunc: func(key string, value any, exp time.Duration) error {
			return errors.New("cache down")
		},
	}
	svc := account.New(repo, cache, makeLogger())

	_, err := svc.GetOrCreate(context.Background(), 42, nil)
	assert.NoError(t, err)
}

func TestGet_ReadsThroughCache(t *testing.T) {
	repo := &mockRepo{
		GetUserFunc: func(ctx context.Context, userID int64) (*models.User, error) {
			t.Fatal("storage should not be called on cache hit")
			return nil, nil
		},
	}
	cache := &mockCache{
		GetFunc: func(key string, result any) (bool, error) {
			u := result.(*models.User)
			u.UserID = 42
			u.DaysLeft = 7
			return true, nil
		},
	}
	svc := account.New(repo, cache, makeLogger())

	u, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 7, u.DaysLeft)
}

func TestMutations_InvalidateCache(t *testing.T) {
	tests := []struct {
		name string
		call func(svc *account.Service) error
	}{
		{
			name: "AddDays",
			call: func(svc *account.Service) error {
				return svc.AddDays(context.Background(), 42, 10)
			},
		},
		{
			name: "SubDays",
			call: func(svc *account.Service) error {
				return svc.SubDays(context.Background(), 42, 10)
			},
		},
		{
			name: "SetDays",
			call: func(svc *account.Service) error {
				return svc.SetDays(context.Background(), 42, 10)
			},
		},
		{
			name: "UpdateProfile",
			call: func(svc *account.Service) error {
				return svc.UpdateProfile(context.Background(), 42, nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				AddDaysFunc: func(ctx context.Context, userID int64, days int) error { return nil },
				SubDaysFunc: func(ctx context.Context, userID int64, days int) error { return nil },
				SetDaysFunc: func(ctx context.Context, userID int64, days int) error { return nil },
				UpdateProfileFunc: func(ctx context.Context, userID int64, username, comment *string) error {
					return nil
				},
			}
			var invalidated string
			cache := &mockCache{
				InvalidateFunc: func(key string) error {
					invalidated = key
					return nil
				},
			}
			svc := account.New(repo, cache, makeLogger())

			require.NoError(t, tt.call(svc))
			assert.Equal(t, "user:42", invalidated)
		})
	}
}
