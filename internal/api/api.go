// Package api exposes the dashboard over HTTP: the JSON API under /api/v1
// and the embedded single-page dashboard at the root.
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/planktos/planktos-go/internal/conf"
	"github.com/planktos/planktos-go/internal/dashboard"
	"github.com/planktos/planktos-go/internal/logging"
)

// Controller registers and serves the dashboard routes.
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	dashboard *dashboard.Controller
	settings  *conf.Settings
	logger    *slog.Logger
}

// New creates the API controller and registers all routes on e.
func New(e *echo.Echo, dash *dashboard.Controller, settings *conf.Settings) *Controller {
	c := &Controller{
		Echo:      e,
		Group:     e.Group("/api/v1"),
		dashboard: dash,
		settings:  settings,
		logger:    logging.ForService("api"),
	}

	c.Group.Use(middleware.Recover())
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.GetHealth)

	c.Group.POST("/upload", c.UploadImage)
	c.Group.GET("/state", c.GetState)

	c.Group.POST("/chat", c.PostChat)
	c.Group.GET("/chat", c.GetChat)

	c.Group.GET("/gallery", c.GetGallery)
	c.Group.POST("/gallery", c.SaveCurrentUpload)
	c.Group.DELETE("/gallery/:id", c.DeleteGalleryItem)
	c.Group.POST("/gallery/:id/select", c.ToggleGallerySelection)
	c.Group.POST("/gallery/selection/clear", c.ClearGallerySelection)

	c.Group.GET("/export/pdf", c.ExportPDF)
	c.Group.GET("/export/png", c.ExportPNG)
	c.Group.POST("/share", c.Share)

	c.initStaticRoutes()
}

// ErrorResponse is the uniform error body for API failures.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse builds an error body with a fresh correlation id.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a short random identifier for error tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError logs the failure with its correlation id and writes the
// uniform error body.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := NewErrorResponse(err, message, code)

	c.logger.Error("API error",
		"correlation_id", resp.CorrelationID,
		"message", message,
		"error", resp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, resp)
}

// GetHealth reports server liveness and inference-backend reachability.
func (c *Controller) GetHealth(ctx echo.Context) error {
	backend := "reachable"
	if err := c.dashboard.PingBackend(ctx.Request().Context()); err != nil {
		backend = "unreachable"
		c.logger.Warn("backend health check failed", "error", err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": backend,
	})
}
