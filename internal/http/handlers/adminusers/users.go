// Package adminusers реализует поиск пользователей для админки.
package adminusers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// Service описывает поиск пользователей.
type Service interface {
	SearchUsers(ctx context.Context, q string) ([]*models.UserSearchRow, error)
}

// Response — найденные пользователи.
type Response struct {
	OK    bool                    `json:"ok"`
	Items []*models.UserSearchRow `json:"items"`
}

// Handler обрабатывает поиск пользователей.
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
// @Summary Поиск пользователей
// @Description Числовой q — точный user_id, строка — подстрока username, пусто — последние пользователи
// @Tags Admin
// @Produce json
// @Param q query string false "Поисковый запрос"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/admin/users [get]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminusers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.admin.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if items == nil {
		items = []*models.UserSearchRow{}
	}

	render.JSON(w, r, Response{OK: true, Items: items})
}
