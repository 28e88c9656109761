package billing

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/subscription-billing/docs" // swagger spec
	"github.com/magabrotheeeer/subscription-billing/internal/config"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/payment/simulate"
	planlist "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/plan/list"
	planread "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/plan/read"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/subscription/cancel"
	subcreate "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/subscription/renew"
	"github.com/magabrotheeeer/subscription-billing/internal/http/handlers/subscription/status"
	usercreate "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/user/create"
	userread "github.com/magabrotheeeer/subscription-billing/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	planservice "github.com/magabrotheeeer/subscription-billing/internal/services/plan"
	subservice "github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-billing/internal/services/user"
)

// Services собирает сервисы, которые обслуживает HTTP API.
type Services struct {
	Plans         *planservice.Service
	Users         *userservice.Service
	Subscriptions *subservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.MetricsMiddleware)
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

		r.Get("/health", health.New(logger).ServeHTTP)

		r.Get("/plans", planlist.New(logger, s.Plans).ServeHTTP)
		r.Get("/plans/{id}", planread.New(logger, s.Plans).ServeHTTP)

		r.Post("/subscribe", subcreate.New(logger, s.Subscriptions).ServeHTTP)
		r.Post("/payment/simulate", simulate.New(logger, s.Subscriptions).ServeHTTP)

		r.Get("/subscriptions/status/{id}", status.New(logger, s.Subscriptions).ServeHTTP)
		r.Get("/subscriptions/{id}", sublist.New(logger, s.Subscriptions).ServeHTTP)
		r.Post("/subscriptions/{id}/renew", renew.New(logger, s.Subscriptions).ServeHTTP)
		r.Post("/subscriptions/{id}/cancel", cancel.New(logger, s.Subscriptions).ServeHTTP)

		r.Post("/users", usercreate.New(logger, s.Users).ServeHTTP)
		r.Get("/users/{email}", userread.New(logger, s.Users).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
