// Package paymentlist возвращает платежи аутентифицированного пользователя.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// Service описывает журнал платежей.
type Service interface {
	List(ctx context.Context, userID int64) ([]*models.Payment, error)
}

// Response — список платежей, новые первыми.
type Response struct {
	OK    bool              `json:"ok"`
	Items []*models.Payment `json:"items"`
}

// Handler обрабатывает запрос списка платежей.
type Handler struct {
	log      *slog.Logger
	payments Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, payments Service) *Handler {
	return &Handler{
		log:      log,
		payments: payments,
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает платежи пользователя, новые первыми, не более 50
// @Tags Payments
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/payments [get]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tgUser, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	items, err := h.payments.List(r.Context(), tgUser.ID)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if items == nil {
		items = []*models.Payment{}
	}

	render.JSON(w, r, Response{OK: true, Items: items})
}
