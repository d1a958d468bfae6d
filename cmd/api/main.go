//	@title			Logofolio API
//	@version		1.0
//	@description	Backend for the Logofolio company-logo gallery.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/logofolio/service/internal/auth"
	"github.com/logofolio/service/internal/config"
	"github.com/logofolio/service/internal/db"
	"github.com/logofolio/service/internal/logo"
	appMiddleware "github.com/logofolio/service/internal/middleware"
	"github.com/logofolio/service/internal/profile"
	"github.com/logofolio/service/internal/storage"
	"github.com/logofolio/service/internal/system"

	_ "github.com/logofolio/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	// One pool per credential tier: public reads never carry the
	// service-role credential, mutations always do.
	readPool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection (read tier) failed: %v", err)
	}
	defer readPool.Close()

	adminPool, err := db.Connect(cfg.DatabaseAdminURL)
	if err != nil {
		log.Fatalf("database connection (admin tier) failed: %v", err)
	}
	defer adminPool.Close()

	if err := db.Migrate(cfg.DatabaseAdminURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
		cfg.MaxUploadBytes,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	profileRepo := profile.NewRepository(adminPool)
	profileSvc := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileSvc)

	authSvc := auth.NewService(profileSvc, cfg)
	authHandler := auth.NewHandler(authSvc)

	logoSvc := logo.NewService(logo.NewRepository(readPool), logo.NewRepository(adminPool), store)
	logoHandler := logo.NewHandler(logoSvc)

	systemHandler := system.NewHandler(store, adminPool, cfg)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
			r.Get("/me", profileHandler.GetMe)
			r.Patch("/me", profileHandler.UpdateMe)
		})

		r.Route("/logos", func(r chi.Router) {
			// Public catalog reads
			r.Get("/", logoHandler.List)
			r.Get("/search", logoHandler.Search)
			r.Get("/{id}", logoHandler.Get)

			// Admin mutations
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
				r.Post("/", logoHandler.Create)
				r.Patch("/{id}", logoHandler.Update)
				r.Delete("/{id}", logoHandler.Delete)
			})
		})

		// Operational diagnostics
		r.Route("/system", func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
			r.Post("/storage/init", systemHandler.InitStorage)
			r.Get("/config", systemHandler.CheckConfig)
			r.Get("/db", systemHandler.CheckDB)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
