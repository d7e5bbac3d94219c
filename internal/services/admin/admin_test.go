package admin_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
	"github.com/magabrotheeeer/miniapp-backend/internal/services/admin"
	"github.com/magabrotheeeer/miniapp-backend/internal/storage/repository"
)

type mockRepo struct {
	GetUserFunc         func(ctx context.Context, userID int64) (*models.User, error)
	SearchUsersFunc     func(ctx context.Context, q string, limit int) ([]*models.UserSearchRow, error)
	ExportRowsFunc      func(ctx context.Context) ([]*models.UserSearchRow, error)
	ListAllUsersFunc    func(ctx context.Context) ([]*models.User, error)
	ListAllPaymentsFunc func(ctx context.Context) ([]*models.Payment, error)
}

func (m *mockRepo) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return m.GetUserFunc(ctx, userID)
}

func (m *mockRepo) SearchUsers(ctx context.Context, q string, limit int) ([]*models.UserSearchRow, error) {
	return m.SearchUsersFunc(ctx, q, limit)
}

func (m *mockRepo) ExportRows(ctx context.Context) ([]*models.UserSearchRow, error) {
	return m.ExportRowsFunc(ctx)
}

func (m *mockRepo) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	return m.ListAllUsersFunc(ctx)
}

func (m *mockRepo) ListAllPayments(ctx context.Context) ([]*models.Payment, error) {
	return m.ListAllPaymentsFunc(ctx)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func strptr(s string) *string { return &s }

func TestEnsureAdmin(t *testing.T) {
	tests := []struct {
		name            string
		userID          int64
		bootstrapAdmins []int64
		user            *models.User
		userErr         error
		wantErr         error
	}{
		{
			name:            "bootstrap admin passes without is_admin in storage",
			userID:          77,
			bootstrapAdmins: []int64{77},
			user:            &models.User{UserID: 77, IsAdmin: false},
		},
		{
			name:            "bootstrap admin passes even without a row",
			userID:          77,
			bootstrapAdmins: []int64{77},
			userErr:         repository.ErrUserNotFound,
		},
		{
			name:   "is_admin flag passes",
			userID: 5,
			user:   &models.User{UserID: 5, IsAdmin: true},
		},
		{
			name:    "regular user is forbidden",
			userID:  5,
			user:    &models.User{UserID: 5, IsAdmin: false},
			wantErr: admin.ErrForbidden,
		},
		{
			name:    "unknown user is forbidden",
			userID:  5,
			userErr: repository.ErrUserNotFound,
			wantErr: admin.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				GetUserFunc: func(ctx context.Context, userID int64) (*models.User, error) {
					if tt.userErr != nil {
						return nil, tt.userErr
					}
					return tt.user, nil
				},
			}
			svc := admin.New(repo, tt.bootstrapAdmins, t.TempDir(), makeLogger())

			err := svc.EnsureAdmin(context.Background(), tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureAdmin_StorageError(t *testing.T) {
	repo := &mockRepo{
		GetUserFunc: func(ctx context.Context, userID int64) (*models.User, error) {
			return nil, errors.New("db down")
		},
	}
	svc := admin.New(repo, nil, t.TempDir(), makeLogger())

	err := svc.EnsureAdmin(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, admin.ErrForbidden)
}

func TestExportCSV(t *testing.T) {
	repo := &mockRepo{
		ExportRowsFunc: func(ctx context.Context) ([]*models.UserSearchRow, error) {
			return []*models.UserSearchRow{
				{UserID: 1, Username: strptr("alice"), DaysLeft: 10},
				{UserID: 2, Username: strptr("bob,the,builder"), DaysLeft: -3},
				{UserID: 3, Username: nil, DaysLeft: 0},
			}, nil
		},
	}
	svc := admin.New(repo, nil, t.TempDir(), makeLogger())

	csv, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "user_id,username,days_left", lines[0])
	assert.Equal(t, "1,alice,10", lines[1])
	// Запятые в username заменяются пробелом.
	assert.Equal(t, "2,bob the builder,-3", lines[2])
	assert.Equal(t, "3,,0", lines[3])
}

func TestBackup(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		ListAllUsersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				{UserID: 1, Username: strptr("o'brien"), DaysLeft: 5,
					SeatsDefault: 1, CreatedAt: now, UpdatedAt: now},
			}, nil
		},
		ListAllPaymentsFunc: func(ctx context.Context) ([]*models.Payment, error) {
			return []*models.Payment{
				{PaymentID: 9, UserID: 1, Days: 30, Seats: 1, Amount: 75,
					Status: models.PaymentStatusPending, CreatedAt: now},
			}, nil
		},
	}
	dir := t.TempDir()
	svc := admin.New(repo, nil, dir, makeLogger())

	name, err := svc.Backup(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "miniapp_backup_"))
	assert.True(t, strings.HasSuffix(name, ".sql"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	dump := string(data)
	assert.Contains(t, dump, "INSERT INTO users")
	assert.Contains(t, dump, "INSERT INTO payments")
	// Одинарные кавычки экранируются удвоением.
	assert.Contains(t, dump, "'o''brien'")
}
