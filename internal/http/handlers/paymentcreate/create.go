// Package paymentcreate создаёт заявку на оплату в статусе pending.
package paymentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// Calculator описывает тарифный калькулятор.
type Calculator interface {
	Amount(days, seats int) int
}

// Service описывает журнал платежей.
type Service interface {
	Create(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error)
}

// Request — параметры покупки. Сумма считается на сервере,
// клиентской сумме не доверяем.
type Request struct {
	Days    int     `json:"days"`
	Seats   int     `json:"seats"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// Response — созданная заявка.
type Response struct {
	OK        bool   `json:"ok"`
	PaymentID int64  `json:"payment_id"`
	Amount    int    `json:"amount"`
	Status    string `json:"status"`
}

// Handler обрабатывает создание заявки на оплату.
type Handler struct {
	log      *slog.Logger
	calc     Calculator
	payments Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, calc Calculator, payments Service) *Handler {
	return &Handler{
		log:      log,
		calc:     calc,
		payments: payments,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заявку на оплату
// @Description Считает сумму и сохраняет заявку в статусе pending
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Параметры покупки"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись initData"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/payment/create [post]
// @Security InitData
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentcreate"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	amount := h.calc.Amount(req.Days, req.Seats)
	paymentID, err := h.payments.Create(r.Context(), tgUser.ID, req.Days, req.Seats, amount, req.Comment)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("payment created",
		slog.Int64("user_id", tgUser.ID),
		slog.Int64("payment_id", paymentID),
		slog.Int("amount", amount))
	render.JSON(w, r, Response{
		OK:        true,
		PaymentID: paymentID,
		Amount:    amount,
		Status:    models.PaymentStatusPending,
	})
}
