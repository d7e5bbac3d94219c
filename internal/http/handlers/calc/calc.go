// Package calc считает стоимость покупки без создания заявки.
package calc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
)

// Calculator описывает тарифный калькулятор.
type Calculator interface {
	Amount(days, seats int) int
}

// Request — параметры расчёта. Диапазон значений не валидируется.
type Request struct {
	Days  int `json:"days"`
	Seats int `json:"seats"`
}

// Response — посчитанная сумма.
type Response struct {
	OK     bool `json:"ok"`
	Amount int  `json:"amount"`
}

// Handler обрабатывает запросы расчёта стоимости.
type Handler struct {
	log  *slog.Logger
	calc Calculator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, calc Calculator) *Handler {
	return &Handler{
		log:  log,
		calc: calc,
	}
}

// ServeHTTP godoc
// @Summary Рассчитать стоимость
// @Description Возвращает сумму к оплате за days дней на seats мест
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Параметры расчёта"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Router /api/calc [post]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.calc"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	render.JSON(w, r, Response{OK: true, Amount: h.calc.Amount(req.Days, req.Seats)})
}
