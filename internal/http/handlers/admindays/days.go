// Package admindays реализует административные операции с балансом дней:
// начисление, списание и прямое выставление значения.
package admindays

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
)

// Op — операция над балансом.
type Op string

// Поддерживаемые операции.
const (
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpSet Op = "set"
)

// AccountService описывает изменение баланса пользователя.
type AccountService interface {
	AddDays(ctx context.Context, userID int64, days int) error
	SubDays(ctx context.Context, userID int64, days int) error
	SetDays(ctx context.Context, userID int64, days int) error
}

// Request — количество дней для операции.
type Request struct {
	Days int `json:"days"`
}

// Handler обрабатывает одну из операций с балансом.
type Handler struct {
	log     *slog.Logger
	account AccountService
	op      Op
}

// New создает Handler для операции op.
func New(log *slog.Logger, account AccountService, op Op) *Handler {
	return &Handler{
		log:     log,
		account: account,
		op:      op,
	}
}

// ServeHTTP godoc
// @Summary Изменить баланс дней пользователя
// @Description add начисляет (баланс перед начислением поднимается до нуля), sub списывает без нижней границы результата, set выставляет значение как есть
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Идентификатор пользователя"
// @Param request body Request true "Количество дней"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/admin/user/{id}/{op} [post]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admindays"
	log := h.log.With(
		slog.String("op", op),
		slog.String("balance_op", string(h.op)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id in path", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	switch h.op {
	case OpAdd:
		err = h.account.AddDays(r.Context(), userID, req.Days)
	case OpSub:
		err = h.account.SubDays(r.Context(), userID, req.Days)
	case OpSet:
		err = h.account.SetDays(r.Context(), userID, req.Days)
	}
	if err != nil {
		log.Error("failed to change days balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("days balance changed",
		slog.Int64("user_id", userID),
		slog.Int("days", req.Days))
	render.JSON(w, r, response.OK())
}
