// Package adminexport отдаёт CSV-выгрузку пользователей.
package adminexport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
)

// Service описывает сборку CSV-выгрузки.
type Service interface {
	ExportCSV(ctx context.Context) (string, error)
}

// Response — CSV-выгрузка одним полем.
type Response struct {
	OK  bool   `json:"ok"`
	CSV string `json:"csv"`
}

// Handler обрабатывает запрос выгрузки.
type Handler struct {
	log   *slog.Logger
	admin Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin Service) *Handler {
	return &Handler{
		log:   log,
		admin: admin,
	}
}

// ServeHTTP godoc
// @Summary CSV-выгрузка пользователей
// @Description Заголовок user_id,username,days_left; запятые в username заменяются пробелом
// @Tags Admin
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/admin/export [get]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminexport"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	csv, err := h.admin.ExportCSV(r.Context())
	if err != nil {
		log.Error("failed to export users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, Response{OK: true, CSV: csv})
}
