package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkdeck/internal/config"
	httpserver "parkdeck/internal/http"
	"parkdeck/internal/http/handlers"
	"parkdeck/internal/http/middleware"
	"parkdeck/internal/password"
	redisstore "parkdeck/internal/redis"
	"parkdeck/internal/repository"
	"parkdeck/internal/service"
	"parkdeck/internal/ws"
	"parkdeck/libs/db"
	libredis "parkdeck/libs/redis"
)

// App wires parkdeck dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(sqlDB)
	catalogRepo := repository.NewCatalogRepository(sqlDB)
	attendantRepo := repository.NewAttendantRepository(sqlDB)
	txRunner := repository.NewTxRunner(sqlDB)

	occupancyCache := redisstore.NewStore(redisClient, cfg.OccupancyTTL())
	hub := ws.NewHub(0, logger)

	parkingService := service.NewParkingService(
		sessionRepo,
		catalogRepo,
		txRunner,
		occupancyCache,
		hub,
		cfg.Rates(),
		logger,
	)
	catalogService := service.NewCatalogService(catalogRepo, logger)

	tokenService := service.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	hasher := password.NewBcryptHasher(0)
	authService := service.NewAuthService(attendantRepo, hasher, tokenService, logger)

	routes := httpserver.Routes{
		Parking:       handlers.NewParkingHandler(parkingService, logger),
		Catalog:       handlers.NewCatalogHandler(catalogService, logger),
		Signup:        handlers.NewSignupHandler(authService),
		Login:         handlers.NewLoginHandler(authService),
		OccupancyFeed: handlers.NewOccupancyFeedHandler(hub, logger),
		Health:        handlers.NewHealthHandler(),
		Auth:          middleware.Auth(tokenService),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the feed hub and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
