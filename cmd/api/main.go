//	@title			ImageVault API
//	@version		1.0
//	@description	Group-scoped image storage: users organise images into groups backed by an S3-compatible bucket.
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token issued by the identity provider. Format: **Bearer {token}**

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/imagevault/service/internal/auth"
	"github.com/imagevault/service/internal/config"
	"github.com/imagevault/service/internal/db"
	"github.com/imagevault/service/internal/gallery"
	"github.com/imagevault/service/internal/group"
	appMiddleware "github.com/imagevault/service/internal/middleware"
	"github.com/imagevault/service/internal/storage"
	"github.com/imagevault/service/internal/user"

	_ "github.com/imagevault/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	store, err := storage.NewMinioStorage(ctx,
		cfg.StorageEndpoint,
		cfg.StorageRegion,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	// Wire dependencies: repository → service → handler
	userSvc := user.NewService(user.NewRepository(pool))
	userHandler := user.NewHandler(userSvc)

	groupSvc := group.NewService(group.NewRepository(pool))
	groupHandler := group.NewHandler(groupSvc, userSvc)

	gallerySvc := gallery.NewService(store, groupSvc, cfg.PresignTTL)
	galleryHandler := gallery.NewHandler(gallerySvc, userSvc, cfg.MaxUploadBytes)

	var webhookHandler *auth.Handler
	if cfg.WebhookSigningSecret == "" {
		log.Warn().Msg("WEBHOOK_SIGNING_SECRET is not set, identity webhook disabled")
	} else {
		webhookHandler, err = auth.NewHandler(auth.NewService(auth.NewRepository(pool)), cfg.WebhookSigningSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid webhook signing secret")
		}
	}

	if cfg.OrphanSweepInterval > 0 {
		go gallerySvc.RunSweeper(ctx, cfg.OrphanSweepInterval)
	}

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.FrontendOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		if webhookHandler != nil {
			r.Post("/webhooks/identity", webhookHandler.Receive)
		}

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

			r.Get("/s3-retrieve", galleryHandler.Retrieve)
			r.Post("/s3-upload", galleryHandler.Upload)
			r.Delete("/s3-delete", galleryHandler.Delete)

			r.Route("/user-groups", func(r chi.Router) {
				r.Get("/", groupHandler.List)
				r.Post("/", groupHandler.Create)
				r.Delete("/", galleryHandler.DeleteGroup)

				// Legacy paths used by older frontends.
				r.Get("/fetch-groups", groupHandler.List)
				r.Post("/create-group", groupHandler.Create)
				r.Delete("/delete-group", galleryHandler.DeleteGroup)
			})

			r.Get("/users/me", userHandler.GetMe)
		})
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 60 * time.Second,
		// Uploads stream to object storage before the response is written.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		log.Info().Msgf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
