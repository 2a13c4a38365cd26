package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/betacycle/internal/config"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/server/http/handlers"
	"github.com/polkiloo/betacycle/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BetaCycleFacade, logger *slog.Logger, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade)
	traceHandler := handlers.NewTraceHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.POST("/Login", authHandler.Login)
	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/FrontendErrors", traceHandler.Report)

	users := api.Group("/Users")
	users.POST("/Registration", userHandler.Register)

	usersAuth := users.Group("")
	usersAuth.Use(middleware.AuthRequired(facade))
	usersAuth.GET("/me", userHandler.Me)
	usersAuth.GET("/email/:email", middleware.RequireRole(model.RoleAdmin), userHandler.ByEmail)
	usersAuth.GET("/:id", middleware.RequireRole(model.RoleAdmin), userHandler.ByID)

	return engine
}
