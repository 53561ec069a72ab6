package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/milstock/internal/config"
	"github.com/crucial707/milstock/internal/handlers"
	mw "github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/repo"
	"github.com/crucial707/milstock/internal/report"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full API router. Split from main so the integration
// tests can run it against a sqlmock-backed database.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(database)
	baseRepo := repo.NewBaseRepo(database)
	equipmentRepo := repo.NewEquipmentTypeRepo(database)
	purchaseRepo := repo.NewPurchaseRepo(database)
	transferRepo := repo.NewTransferRepo(database)
	assignmentRepo := repo.NewAssignmentRepo(database)
	expenditureRepo := repo.NewExpenditureRepo(database)
	logRepo := repo.NewLogRepo(database)

	secret := []byte(cfg.JWTSecret)

	authHandler := &handlers.AuthHandler{
		UserRepo:    userRepo,
		Secret:      secret,
		TokenExpiry: time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
	userHandler := &handlers.UserHandler{Repo: userRepo}
	baseHandler := &handlers.BaseHandler{Repo: baseRepo}
	equipmentHandler := &handlers.EquipmentTypeHandler{Repo: equipmentRepo}
	purchaseHandler := &handlers.PurchaseHandler{Repo: purchaseRepo}
	transferHandler := &handlers.TransferHandler{Repo: transferRepo}
	assignmentHandler := &handlers.AssignmentHandler{Repo: assignmentRepo}
	expenditureHandler := &handlers.ExpenditureHandler{Repo: expenditureRepo}
	logHandler := &handlers.LogHandler{Repo: logRepo}
	dashboardHandler := &handlers.DashboardHandler{Engine: report.NewEngine(database)}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.Recoverer)
	r.Use(mw.RequestLog)
	r.Use(mw.Prometheus)
	r.Use(mw.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Login is rate limited per client IP and capped at a small body.
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthRateLimiter().Middleware)
		r.Use(mw.MaxBytes(4 << 10))
		r.Post("/auth/login", authHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Authenticator(secret, userRepo))
		r.Use(mw.MaxBytes(1 << 20))

		r.Get("/bases", baseHandler.List)
		r.Post("/bases", baseHandler.Create)
		r.Get("/bases/{id}", baseHandler.Get)
		r.Delete("/bases/{id}", baseHandler.Delete)

		r.Get("/equipment-types", equipmentHandler.List)
		r.Post("/equipment-types", equipmentHandler.Create)
		r.Get("/equipment-types/{id}", equipmentHandler.Get)
		r.Delete("/equipment-types/{id}", equipmentHandler.Delete)

		r.Get("/purchases", purchaseHandler.List)
		r.Post("/purchases", purchaseHandler.Create)
		r.Delete("/purchases/{id}", purchaseHandler.Delete)

		r.Get("/transfers", transferHandler.List)
		r.Post("/transfers", transferHandler.Create)
		r.Delete("/transfers/{id}", transferHandler.Delete)

		r.Get("/assignments", assignmentHandler.List)
		r.Post("/assignments", assignmentHandler.Create)
		r.Delete("/assignments/{id}", assignmentHandler.Delete)

		r.Get("/expenditures", expenditureHandler.List)
		r.Post("/expenditures", expenditureHandler.Create)
		r.Delete("/expenditures/{id}", expenditureHandler.Delete)

		r.Get("/dashboard", dashboardHandler.Get)
		r.Get("/logs", logHandler.List)

		r.Get("/users", userHandler.List)
		r.Post("/users", userHandler.Create)
		r.Get("/users/{id}", userHandler.Get)
		r.Delete("/users/{id}", userHandler.Delete)
	})

	return r
}
