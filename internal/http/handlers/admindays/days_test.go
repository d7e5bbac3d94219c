package admindays_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/admindays"
)

type mockAccountService struct {
	AddDaysFunc func(ctx context.Context, userID int64, days int) error
	SubDaysFunc func(ctx context.Context, userID int64, days int) error
	SetDaysFunc func(ctx context.Context, userID int64, days int) error
}

func (m *mockAccountService) AddDays(ctx context.Context, userID int64, days int) error {
	return m.AddDaysFunc(ctx, userID, days)
}

func (m *mockAccountService) SubDays(ctx context.Context, userID int64, days int) error {
	return m.SubDaysFunc(ctx, userID, days)
}

func (m *mockAccountService) SetDays(ctx context.Context, userID int64, days int) error {
	return m.SetDaysFunc(ctx, userID, days)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/user/"+id+"/days", bytes.NewBufferString(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_ServeHTTP(t *testing.T) {
	log := slog.New(discardHandler{})

	ops := []struct {
		name string
		op   admindays.Op
		wire func(m *mockAccountService, called *bool)
	}{
		{
			name: "add routes to AddDays",
			op:   admindays.OpAdd,
			wire: func(m *mockAccountService, called *bool) {
				m.AddDaysFunc = func(ctx context.Context, userID int64, days int) error {
					*called = true
					if userID != 42 || days != 10 {
						return assert.AnError
					}
					return nil
				}
			},
		},
		{
			name: "sub routes to SubDays",
			op:   admindays.OpSub,
			wire: func(m *mockAccountService, called *bool) {
				m.SubDaysFunc = func(ctx context.Context, userID int64, days int) error {
					*called = true
					return nil
				}
			},
		},
		{
			name: "set routes to SetDays",
			op:   admindays.OpSet,
			wire: func(m *mockAccountService, called *bool) {
				m.SetDaysFunc = func(ctx context.Context, userID int64, days int) error {
					*called = true
					return nil
				}
			},
		},
	}

	for _, tt := range ops {
		t.Run(tt.name, func(t *testing.T) {
			account := &mockAccountService{}
			called := false
			tt.wire(account, &called)

			w := httptest.NewRecorder()
			admindays.New(log, account, tt.op).ServeHTTP(w, newRequest("42", `{"days": 10}`))

			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, called)
			assert.Contains(t, w.Body.String(), `"ok":true`)
		})
	}

	t.Run("negative days are not rejected", func(t *testing.T) {
		account := &mockAccountService{}
		gotDays := 0
		account.AddDaysFunc = func(ctx context.Context, userID int64, days int) error {
			gotDays = days
			return nil
		}

		w := httptest.NewRecorder()
		admindays.New(log, account, admindays.OpAdd).ServeHTTP(w, newRequest("42", `{"days": -5}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, -5, gotDays)
	})

	t.Run("non-numeric id gives 400", func(t *testing.T) {
		account := &mockAccountService{}

		w := httptest.NewRecorder()
		admindays.New(log, account, admindays.OpAdd).ServeHTTP(w, newRequest("abc", `{"days": 10}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body gives 400", func(t *testing.T) {
		account := &mockAccountService{}

		w := httptest.NewRecorder()
		admindays.New(log, account, admindays.OpAdd).ServeHTTP(w, newRequest("42", `{`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})
}
