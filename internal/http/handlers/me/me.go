// Package me возвращает профиль аутентифицированного пользователя,
// создавая запись при первом обращении.
package me

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

// AccountService описывает создание/чтение записи пользователя.
type AccountService interface {
	GetOrCreate(ctx context.Context, userID int64, username *string) (*models.User, error)
}

// AdminChecker сообщает, является ли пользователь администратором,
// с учётом списка стартовых администраторов из конфига.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Response — профиль пользователя для мини-приложения.
type Response struct {
	OK           bool    `json:"ok"`
	UserID       int64   `json:"user_id"`
	Username     *string `json:"username"`
	DaysLeft     int     `json:"days_left"`
	UserComment  *string `json:"user_comment"`
	ExpiredSince *string `json:"expired_since"`
	IsAdmin      bool    `json:"is_admin"`
}

// Handler обрабатывает запросы профиля пользователя.
type Handler struct {
	log     *slog.Logger
	account AccountService
	admin   AdminChecker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, account AccountService, admin AdminChecker) *Handler {
	return &Handler{
		log:     log,
		account: account,
		admin:   admin,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Создаёт запись при первом обращении и возвращает профиль с балансом дней
// @Tags User
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/me [get]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me"
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

	var username *string
	if tgUser.Username != "" {
		username = &tgUser.Username
	}

	user, err := h.account.GetOrCreate(r.Context(), tgUser.ID, username)
	if err != nil {
		log.Error("failed to get or create user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	isAdmin, err := h.admin.IsAdmin(r.Context(), tgUser.ID)
	if err != nil {
		log.Error("failed to check admin flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, Response{
		OK:           true,
		UserID:       user.UserID,
		Username:     user.Username,
		DaysLeft:     user.DaysLeft,
		UserComment:  user.UserComment,
		ExpiredSince: user.ExpiredSince,
		IsAdmin:      isAdmin,
	})
}
