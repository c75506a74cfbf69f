package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	protocolHandler *Protocol
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, protocolHandler *Protocol) *Router {
	return &Router{
		cfg:             cfg,
		protocolHandler: protocolHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupProtocolRoutes(v1)
}

// setupProtocolRoutes configures protocol generation routes
func (rt *Router) setupProtocolRoutes(g *echo.Group) {
	protocolGroup := g.Group("/protocols")

	if rt.protocolHandler != nil {
		protocolGroup.POST("", rt.protocolHandler.Create)
		protocolGroup.GET("", rt.protocolHandler.List)
		protocolGroup.GET("/:id", rt.protocolHandler.Get)
		protocolGroup.GET("/:id/document", rt.protocolHandler.GetDocument)
		protocolGroup.GET("/:id/markdown", rt.protocolHandler.GetMarkdown)
		protocolGroup.POST("/:id/cancel", rt.protocolHandler.Cancel)
	} else {
		protocolGroup.POST("", rt.notImplemented)
		protocolGroup.GET("", rt.notImplemented)
		protocolGroup.GET("/:id", rt.notImplemented)
		protocolGroup.GET("/:id/document", rt.notImplemented)
		protocolGroup.GET("/:id/markdown", rt.notImplemented)
		protocolGroup.POST("/:id/cancel", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
