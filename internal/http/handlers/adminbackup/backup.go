// Package adminbackup создаёт резервную выгрузку данных.
package adminbackup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
)

// Service описывает резервную выгрузку.
type Service interface {
	Backup(ctx context.Context) (string, error)
}

// Response — имя созданного файла выгрузки.
type Response struct {
	OK   bool   `json:"ok"`
	File string `json:"file"`
}

// Handler обрабатывает запрос резервной выгрузки.
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
// @Summary Резервная выгрузка
// @Description Пишет SQL-дамп users и payments в каталог выгрузок и возвращает имя файла
// @Tags Admin
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/admin/backup [get]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminbackup"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	file, err := h.admin.Backup(r.Context())
	if err != nil {
		log.Error("failed to write backup", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, Response{OK: true, File: file})
}
