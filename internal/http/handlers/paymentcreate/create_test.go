package paymentcreate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/paymentcreate"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

type mockCalculator struct {
	AmountFunc func(days, seats int) int
}

func (m *mockCalculator) Amount(days, seats int) int {
	return m.AmountFunc(days, seats)
}

type mockService struct {
	CreateFunc func(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error)
}

func (m *mockService) Create(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
	return m.CreateFunc(ctx, userID, days, seats, amount, comment)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func newRequestWithUser(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/create", bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), middlewarectx.TgUser, &models.TelegramUser{ID: 42})
	return req.WithContext(ctx)
}

func TestHandler_ServeHTTP(t *testing.T) {
	log := slog.New(discardHandler{})

	t.Run("amount is computed server side", func(t *testing.T) {
		calculator := &mockCalculator{
			AmountFunc: func(days, seats int) int { return 142 },
		}
		payments := &mockService{
			CreateFunc: func(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
				require.Equal(t, int64(42), userID)
				require.Equal(t, 60, days)
				require.Equal(t, 1, seats)
				require.Equal(t, 142, amount)
				require.Nil(t, comment)
				return 9, nil
			},
		}

		w := httptest.NewRecorder()
		paymentcreate.New(log, calculator, payments).ServeHTTP(w, newRequestWithUser(`{"days": 60, "seats": 1, "amount": 1}`))

		require.Equal(t, http.StatusOK, w.Code)

		var resp paymentcreate.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, int64(9), resp.PaymentID)
		assert.Equal(t, 142, resp.Amount)
		assert.Equal(t, models.PaymentStatusPending, resp.Status)
	})

	t.Run("comment is forwarded", func(t *testing.T) {
		calculator := &mockCalculator{AmountFunc: func(days, seats int) int { return 75 }}
		payments := &mockService{
			CreateFunc: func(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
				require.NotNil(t, comment)
				require.Equal(t, "через сбер", *comment)
				return 1, nil
			},
		}

		w := httptest.NewRecorder()
		paymentcreate.New(log, calculator, payments).ServeHTTP(w, newRequestWithUser(`{"days": 30, "seats": 1, "comment": "через сбер"}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("too long comment gives 422", func(t *testing.T) {
		calculator := &mockCalculator{AmountFunc: func(days, seats int) int { return 0 }}
		payments := &mockService{
			CreateFunc: func(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
				t.Fatal("service should not be called")
				return 0, nil
			},
		}

		long := strings.Repeat("x", 501)
		w := httptest.NewRecorder()
		paymentcreate.New(log, calculator, payments).ServeHTTP(w, newRequestWithUser(`{"days": 30, "seats": 1, "comment": "`+long+`"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("missing user in context gives 401", func(t *testing.T) {
		calculator := &mockCalculator{AmountFunc: func(days, seats int) int { return 0 }}
		payments := &mockService{
			CreateFunc: func(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
				t.Fatal("service should not be called")
				return 0, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/payment/create", bytes.NewBufferString(`{"days": 30, "seats": 1}`))
		w := httptest.NewRecorder()
		paymentcreate.New(log, calculator, payments).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
