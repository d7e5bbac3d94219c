// Package adminconfirm подтверждает последнюю pending-заявку пользователя.
package adminconfirm

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
)

// Service описывает подтверждение платежа.
type Service interface {
	ConfirmLast(ctx context.Context, userID int64) (bool, error)
}

// Response — результат подтверждения. OK=false означает, что
// pending-заявок у пользователя не было; это не ошибка.
type Response struct {
	OK bool `json:"ok"`
}

// Handler обрабатывает подтверждение платежа.
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
// @Summary Подтвердить последний платеж
// @Description Переводит самую свежую pending-заявку пользователя в paid и начисляет дни; ok=false, если подтверждать нечего
// @Tags Admin
// @Produce json
// @Param id path int true "Идентификатор пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/admin/user/{id}/confirm_last_payment [post]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminconfirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id in path", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	ok, err := h.payments.ConfirmLast(r.Context(), userID)
	if err != nil {
		log.Error("failed to confirm last payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("confirm last payment handled",
		slog.Int64("user_id", userID),
		slog.Bool("confirmed", ok))
	render.JSON(w, r, Response{OK: ok})
}
