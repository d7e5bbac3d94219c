// Package middlewarectx содержит HTTP middleware мини-приложения.
//
// InitDataMiddleware проверяет подпись initData из заголовка
// X-Telegram-Init-Data и кладёт аутентифицированного пользователя Telegram
// в контекст запроса. AdminOnlyMiddleware дополнительно требует прав
// администратора.
//
// В случае ошибки проверки возвращается HTTP 401 Unauthorized,
// при отсутствии прав — HTTP 403 Forbidden.
package middlewarectx

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

// InitDataHeader — заголовок, в котором клиент передаёт initData.
const InitDataHeader = "X-Telegram-Init-Data"

// Key тип для ключей контекста HTTP-запроса.
type Key string

// TgUser — ключ для пользователя Telegram в контексте.
const TgUser Key = "telegram_user"

// Verifier описывает проверку подписи initData.
type Verifier interface {
	Verify(raw string) (*models.TelegramUser, error)
}

// UserFromContext достаёт пользователя Telegram из контекста запроса.
func UserFromContext(ctx context.Context) (*models.TelegramUser, bool) {
	u, ok := ctx.Value(TgUser).(*models.TelegramUser)
	return u, ok && u != nil
}

// InitDataMiddleware возвращает middleware, которое проверяет подпись
// initData в заголовке запроса и кладёт пользователя в контекст.
func InitDataMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.InitDataMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, err := verifier.Verify(r.Header.Get(InitDataHeader))
			if err != nil {
				log.Error("invalid init data", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid init data"))
				return
			}

			ctx := context.WithValue(r.Context(), TgUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
