package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExportPDF renders the current dashboard state as the PDF report.
func (c *Controller) ExportPDF(ctx echo.Context) error {
	data, err := c.dashboard.ExportPDF()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to build PDF report", http.StatusInternalServerError)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dashboard_report.pdf"`)
	return ctx.Blob(http.StatusOK, "application/pdf", data)
}

// ExportPNG renders the current dashboard state as the raster snapshot.
func (c *Controller) ExportPNG(ctx echo.Context) error {
	data, err := c.dashboard.ExportPNG()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to render snapshot", http.StatusInternalServerError)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dashboard_report.png"`)
	return ctx.Blob(http.StatusOK, "image/png", data)
}

// Share runs the delivery cascade and returns the first artifact that
// succeeded. Only exhaustion of every method is an error.
func (c *Controller) Share(ctx echo.Context) error {
	delivery, err := c.dashboard.Share(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Could not share or export the report", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, delivery)
}
