package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/yourorg/brokerage/internal/auth"
	"github.com/yourorg/brokerage/internal/config"
)

func NewRouter(h *Handlers, tokens *auth.TokenService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens, cfg.CookieName))

		r.Get("/v1/user/user", h.GetUser)
		r.Patch("/v1/user/update-info", h.UpdateInfo)

		r.Get("/v1/stock/get", h.GetStocks)
		r.Get("/v1/broker/get", h.GetBrokers)
		r.Post("/v1/stock/register-buy-order", h.RegisterBuyOrder)
		r.Post("/v1/stock/register-sell-order", h.RegisterSellOrder)

		r.Get("/v1/portfolio", h.GetPortfolios)
		r.Post("/v1/portfolio/create", h.CreatePortfolio)
		r.Patch("/v1/portfolio/update-name", h.UpdatePortfolioName)

		r.Post("/v1/transaction/add-funds", h.AddFunds)
		r.Post("/v1/transaction/retire-funds", h.RetireFunds)

		r.Get("/v1/history", h.GetHistory)
	})

	return r
}
