package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxUploadSize bounds the multipart image payload.
const maxUploadSize = 32 << 20

// UploadImage accepts a microscope image as multipart field "file", runs
// the detection round trip and returns the resulting dashboard state. A
// backend failure is surfaced with the backend's message; the previous
// detection state stays in place.
func (c *Controller) UploadImage(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.HandleError(ctx, err, "No image file provided", http.StatusBadRequest)
	}
	if fileHeader.Size > maxUploadSize {
		return c.HandleError(ctx, nil, "Image file too large", http.StatusRequestEntityTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read uploaded file", http.StatusBadRequest)
	}
	defer file.Close()

	state, err := c.dashboard.Upload(ctx.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		// the state carries the user-visible message in LastError
		return ctx.JSON(http.StatusBadGateway, state)
	}
	return ctx.JSON(http.StatusOK, state)
}

// GetState returns the current dashboard state.
func (c *Controller) GetState(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.dashboard.Snapshot())
}
