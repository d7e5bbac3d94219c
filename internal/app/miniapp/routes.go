// Package miniapp собирает HTTP-приложение мини-аппа: маршруты,
// middleware и жизненный цикл сервера.
package miniapp

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/adminbackup"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/adminconfirm"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/admindays"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/adminexport"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/adminusers"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/calc"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/me"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/paymentcreate"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/paymentlist"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/ping"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/handlers/profile"
	"github.com/magabrotheeeer/miniapp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/initdata"
	"github.com/magabrotheeeer/miniapp-backend/internal/lib/pricing"
	accountservice "github.com/magabrotheeeer/miniapp-backend/internal/services/account"
	adminservice "github.com/magabrotheeeer/miniapp-backend/internal/services/admin"
	paymentservice "github.com/magabrotheeeer/miniapp-backend/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	verifier *initdata.Verifier, calculator *pricing.Calculator,
	accountService *accountservice.Service, paymentService *paymentservice.Service,
	adminService *adminservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.CORSMiddleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Единственная открытая конечная точка
		r.Get("/ping", ping.New())

		// Группа с аутентификацией по initData
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.InitDataMiddleware(verifier, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/me", me.New(logger, accountService, adminService).ServeHTTP)
			r.Post("/calc", calc.New(logger, calculator).ServeHTTP)
			r.Post("/payment/create", paymentcreate.New(logger, calculator, paymentService).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Post("/profile", profile.New(logger, accountService).ServeHTTP)

			// Административный контур
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(adminService, logger))
				r.Get("/users", adminusers.New(logger, adminService).ServeHTTP)
				r.Post("/user/{id}/add", admindays.New(logger, accountService, admindays.OpAdd).ServeHTTP)
				r.Post("/user/{id}/sub", admindays.New(logger, accountService, admindays.OpSub).ServeHTTP)
				r.Post("/user/{id}/set", admindays.New(logger, accountService, admindays.OpSet).ServeHTTP)
				r.Post("/user/{id}/confirm_last_payment", adminconfirm.New(logger, paymentService).ServeHTTP)
				r.Get("/export", adminexport.New(logger, adminService).ServeHTTP)
				r.Get("/backup", adminbackup.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
