// Package ping отвечает на проверку доступности API.
package ping

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response — ответ проверки доступности.
type Response struct {
	OK   bool `json:"ok"`
	Pong bool `json:"pong"`
}

// New возвращает обработчик проверки доступности.
//
// @Summary Проверка доступности
// @Tags Service
// @Produce json
// @Success 200 {object} Response
// @Router /api/ping [get]
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{OK: true, Pong: true})
	}
}
