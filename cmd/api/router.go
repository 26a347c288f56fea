package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/asset-tracker/internal/config"
	"github.com/crucial707/asset-tracker/internal/handlers"
	"github.com/crucial707/asset-tracker/internal/middleware"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/repo"
	"github.com/crucial707/asset-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repos, services and handlers over database and returns the
// full HTTP handler.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	assetRepo := repo.NewAssetRepo(database)
	userRepo := repo.NewUserRepo(database)
	userService := service.NewUserService(userRepo)

	assetHandler := &handlers.AssetHandler{Service: service.NewAssetService(assetRepo, userRepo)}
	userHandler := &handlers.UserHandler{Service: userService}
	authHandler := &handlers.AuthHandler{
		Users:  userService,
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.JWTTTL(),
	}
	loginLimiter := middleware.LoginRateLimiter(cfg.LoginRatePerMinute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := database.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware([]byte(cfg.JWTSecret)))

			r.Get("/auth/verify", authHandler.Verify)

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", assetHandler.ListAssets)
				r.Post("/", assetHandler.CreateAsset)
				r.Get("/{id}", assetHandler.GetAsset)
				r.Put("/{id}", assetHandler.UpdateAsset)
				r.Delete("/{id}", assetHandler.DeleteAsset)
				r.Post("/{id}/assign", assetHandler.AssignAsset)
				r.Post("/{id}/unassign", assetHandler.UnassignAsset)
			})

			r.Get("/reports/assets", assetHandler.StatusReport)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.With(middleware.RequireRole(models.RoleAdmin)).Post("/", userHandler.CreateUser)
				r.With(middleware.RequireRole(models.RoleAdmin)).Put("/{id}", userHandler.UpdateUser)
			})
		})
	})

	return r
}
