package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/response"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/miniapp-backend/internal/services/admin"
)

// AdminChecker описывает проверку прав администратора.
type AdminChecker interface {
	EnsureAdmin(ctx context.Context, userID int64) error
}

// AdminOnlyMiddleware возвращает middleware, которое пропускает только
// администраторов. Должно стоять после InitDataMiddleware.
func AdminOnlyMiddleware(checker AdminChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminOnlyMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if err := checker.EnsureAdmin(r.Context(), user.ID); err != nil {
				if errors.Is(err, admin.ErrForbidden) {
					log.Warn("admin access denied", slog.Int64("user_id", user.ID))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("forbidden"))
					return
				}
				log.Error("failed to check admin rights", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
