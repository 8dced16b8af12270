// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"

	"salesreports/internal/domain/salesreport"
	"salesreports/internal/infrastructure/http/v1/handlers"
	"salesreports/internal/infrastructure/http/v1/middleware"
	"salesreports/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger    *logger.Logger
	Wizard    *salesreport.Wizard
	Validator middleware.JWTValidator
	Ping      func(c *gin.Context) error
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.Recovery(),
		middleware.ErrorHandler(),
	)

	base := handlers.NewBaseHandler()

	router.GET("/health", handlers.NewHealthHandler(cfg.Ping).Get)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Validator))

	reports := api.Group("/reports")
	handlers.NewReportsHandler(base, cfg.Wizard).RegisterRoutes(reports)

	return router
}
