package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/timvest/intake-server-go/internal/config"
	"github.com/timvest/intake-server-go/internal/database"
	"github.com/timvest/intake-server-go/internal/handler"
	"github.com/timvest/intake-server-go/internal/middleware"
	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/redis"
	"github.com/timvest/intake-server-go/internal/repository"
	"github.com/timvest/intake-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(cfg.IsProduction()); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	applicationRepo, closeStore, err := openApplicationStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open application store")
	}
	defer closeStore()

	adminRepo, err := repository.NewSeededAdminRepository(model.AdminAccount{
		ID:           1,
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		Role:         model.RoleAdmin,
		Name:         cfg.AdminName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.TokenTTL())
	if err := authService.CalibrateTimingPad(cfg.AdminPasswordHash); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare login timing pad")
	}
	applicationService := service.NewApplicationService(applicationRepo, service.LogNotifier{}, cfg.AllowRedecision)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())

	authHandler := handler.NewAuthHandler(authService, authMiddleware.Handler)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	adminHandler := handler.NewAdminHandler(applicationService, authMiddleware.Handler)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/applications", applicationHandler.Routes())
		r.Mount("/admin", adminHandler.Routes())
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Msg("starting server")
		if !cfg.IsProduction() {
			log.Info().Str("email", cfg.AdminEmail).Msg("admin login enabled for seed account")
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openApplicationStore returns the configured store and a function releasing
// its connections.
func openApplicationStore(cfg *config.Config) (repository.ApplicationRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.StorePingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("database connected")
		return repository.NewPostgresApplicationRepository(db), func() { db.Close() }, nil

	case config.StoreDriverRedis:
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("redis connected")
		return repository.NewRedisApplicationRepository(client.Client), func() { client.Close() }, nil

	default:
		log.Warn().Msg("using in-memory application store; data is lost on restart")
		return repository.NewMemoryApplicationRepository(), func() {}, nil
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
