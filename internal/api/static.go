package api

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed web
var webFS embed.FS

// initStaticRoutes serves the embedded dashboard page.
func (c *Controller) initStaticRoutes() {
	c.Echo.GET("/", func(ctx echo.Context) error {
		page, err := webFS.ReadFile("web/index.html")
		if err != nil {
			return c.HandleError(ctx, err, "Dashboard page unavailable", http.StatusInternalServerError)
		}
		return ctx.HTMLBlob(http.StatusOK, page)
	})
}
