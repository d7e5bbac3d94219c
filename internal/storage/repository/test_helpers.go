package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/miniapp-backend/internal/migrations"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с заданным балансом.
// Пустой username заменяется уникальным сгенерированным значением.
func (f *TestDataFactory) CreateUser(t *testing.T, userID int64, username string, daysLeft int, isAdmin bool) {
	if username == "" {
		username = "user_" + uuid.New().String()
	}
	_, err := f.storage.DB.Exec(`INSERT INTO users (user_id, username, days_left, is_admin)
		VALUES ($1, $2, $3, $4)`,
		userID, username, daysLeft, isAdmin)
	require.NoError(t, err)
}

// CreatePayment создает тестовый платеж и возвращает его идентификатор
func (f *TestDataFactory) CreatePayment(t *testing.T, userID int64, days, seats, amount int, status string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO payments (user_id, days, seats, amount, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING payment_id`,
		userID, days, seats, amount, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyDaysLeft проверяет баланс пользователя в БД
func (v *TestVerification) VerifyDaysLeft(t *testing.T, userID int64, expected int) {
	var daysLeft int
	err := v.storage.DB.QueryRow("SELECT days_left FROM users WHERE user_id = $1", userID).Scan(&daysLeft)
	require.NoError(t, err)
	require.Equal(t, expected, daysLeft)
}

// VerifyPaymentStatus проверяет статус платежа в БД
func (v *TestVerification) VerifyPaymentStatus(t *testing.T, paymentID int64, expected string) {
	var status string
	err := v.storage.DB.QueryRow("SELECT status FROM payments WHERE payment_id = $1", paymentID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, expected, status)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
// и применяет к ней миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := New(connStr)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"), "failed to run migrations")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}
