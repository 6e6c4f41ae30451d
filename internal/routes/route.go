package routes

import (
	"context"
	"net/http"

	"brilho-bknd/internal/auth"
	"brilho-bknd/internal/config"
	"brilho-bknd/internal/handlers"
	"brilho-bknd/internal/logger"
	"brilho-bknd/internal/matching"
	mdlwr "brilho-bknd/internal/middleware"
	"brilho-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTIssuer)
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	engine := matching.NewEngine(matching.Weights{
		Proximity:  cfg.MatchWeightProximity,
		Rating:     cfg.MatchWeightRating,
		Experience: cfg.MatchWeightExperience,
	})

	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr)
	coverageSvc := services.NewCoverageService(db)
	expansionSvc := services.NewExpansionService(db)
	if err := expansionSvc.SeedDefaultPhases(context.Background()); err != nil {
		logr.Warn("failed to seed expansion phases", zap.Error(err))
	}
	staffSvc := services.NewStaffService(db)
	matchingSvc := services.NewMatchingService(db, engine, staffSvc, cfg.DefaultMaxDistanceKm, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr, authSvc, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr, cfg)
	coverageHandler := handlers.NewCoverageHandler(coverageSvc, logr.Logger)
	expansionHandler := handlers.NewExpansionHandler(expansionSvc, logr.Logger)
	staffHandler := handlers.NewStaffHandler(staffSvc, logr.Logger)
	matchingHandler := handlers.NewMatchingHandler(matchingSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/login", authHandler.LoginLocal)
			r.Post("/ldap", authHandler.LoginLDAP)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/coverage", func(r chi.Router) {
			// Public coverage checks for the booking flow
			r.Get("/zones", coverageHandler.ListZones)
			r.Get("/check", coverageHandler.CheckCoverage)
			r.Get("/check/cep", coverageHandler.CheckCEP)

			// Admin zone CRUD
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth, authMW.AdminOnly)
				r.Post("/zones", coverageHandler.CreateZone)
				r.Put("/zones/{id}", coverageHandler.UpdateZone)
				r.Delete("/zones/{id}", coverageHandler.DeleteZone)
			})
		})

		r.Route("/expansion", func(r chi.Router) {
			// Public opt-in and roadmap
			r.Post("/waitlist", expansionHandler.JoinWaitlist)
			r.Get("/phases", expansionHandler.ListPhases)

			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth, authMW.AdminOnly)
				r.Get("/waitlist", expansionHandler.ListWaitlist)
				r.Post("/waitlist/notify", expansionHandler.NotifyWaitlist)
				r.Get("/demand", expansionHandler.GetDemand)
				r.Get("/targets", expansionHandler.GetTargets)
				r.Put("/phases/{key}/status", expansionHandler.UpdatePhaseStatus)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(authMW.JWTAuth, authMW.AdminOnly)
			r.Get("/", staffHandler.ListStaff)
			r.Post("/", staffHandler.CreateStaff)
			r.Get("/{id}", staffHandler.GetStaffByID)
			r.Put("/{id}", staffHandler.UpdateStaff)
			r.Delete("/{id}", staffHandler.DeleteStaff)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Post("/apply", staffHandler.ApplyAsProvider)

			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth, authMW.AdminOnly)
				r.Get("/applications", staffHandler.ListApplications)
				r.Post("/applications/{id}/approve", staffHandler.ApproveApplication)
				r.Post("/applications/{id}/reject", staffHandler.RejectApplication)
			})
		})

		r.Route("/matching", func(r chi.Router) {
			r.Post("/match", matchingHandler.FindMatch)

			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth, authMW.AdminOnly)
				r.Post("/assignments", matchingHandler.CreateAssignment)
				r.Get("/assignments", matchingHandler.ListAssignments)
				r.Patch("/assignments/{id}/status", matchingHandler.UpdateAssignmentStatus)
			})
		})

	})

	return r
}
