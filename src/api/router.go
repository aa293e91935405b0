package api

import (
	"net/http"
	"time"

	"fire-server/src/config"
	"fire-server/src/handlers"
	"fire-server/src/middleware"
	"fire-server/src/rates"
	"fire-server/src/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, users handlers.UserRepository, sessions *store.Sessions, rateProvider *rates.Provider) *chi.Mux {
	now := handlers.Clock(time.Now)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(users, cfg.JWTSecret))
		r.Post("/register", handlers.Register(users, cfg.JWTSecret))
		r.Get("/categories", handlers.GetCategories())

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret)).Group(func(r chi.Router) {
			// Months
			r.Get("/months", handlers.GetMonths(sessions))
			r.Post("/months/previous", handlers.AddPreviousMonth(sessions))
			r.Delete("/months/oldest", handlers.RemoveOldestMonth(sessions))
			r.Put("/months/{month_id}/collaborates-in-debt", handlers.SetCollaboratesInDebt(sessions))
			r.Put("/months/{month_id}/{type}/{category}", handlers.UpdateMonthValue(sessions))
			r.Post("/months/{month_id}/allocate", handlers.AllocateFunds(sessions))

			// Config
			r.Get("/config", handlers.GetConfig(sessions))
			r.Put("/config", handlers.UpdateConfig(sessions))
			r.Put("/locale", handlers.SetLocale(sessions))

			// Stats
			r.Get("/stats", handlers.GetStats(sessions, rateProvider, now))
			r.Get("/stats/series", handlers.GetSeries(sessions))
			r.Get("/stats/categories/{type}", handlers.GetCategoryStats(sessions))
			r.Get("/projection", handlers.GetProjection(sessions, now))

			// Transfer
			r.Get("/export", handlers.ExportMonths(sessions, now))
			r.Post("/import", handlers.ImportMonths(sessions))

			// Rates
			r.Get("/rates", handlers.GetRates(rateProvider))
			r.Post("/rates/refresh", handlers.RefreshRates(rateProvider))
		})
	})

	return r
}
