package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/planktos/planktos-go/internal/gallery"
)

type galleryResponse struct {
	Items     []gallery.Item `json:"items"`
	Selection []string       `json:"selection"`
}

// GetGallery returns the saved images newest first plus the current
// comparison selection.
func (c *Controller) GetGallery(ctx echo.Context) error {
	g := c.dashboard.Gallery()
	return ctx.JSON(http.StatusOK, galleryResponse{
		Items:     g.Items(),
		Selection: g.Selection(),
	})
}

// SaveCurrentUpload stores the currently displayed image in the gallery.
func (c *Controller) SaveCurrentUpload(ctx echo.Context) error {
	item, err := c.dashboard.SaveCurrentUpload()
	if err != nil {
		return c.HandleError(ctx, err, "No uploaded image to save", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusCreated, item)
}

// DeleteGalleryItem removes a saved image by id.
func (c *Controller) DeleteGalleryItem(ctx echo.Context) error {
	id := ctx.Param("id")
	if !c.dashboard.Gallery().Remove(id) {
		return c.HandleError(ctx, nil, "Gallery item not found", http.StatusNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ToggleGallerySelection toggles an item in the comparison selection and
// returns the selection after the toggle.
func (c *Controller) ToggleGallerySelection(ctx echo.Context) error {
	id := ctx.Param("id")
	g := c.dashboard.Gallery()
	if _, ok := g.Get(id); !ok {
		return c.HandleError(ctx, nil, "Gallery item not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"selection": g.ToggleSelect(id),
	})
}

// ClearGallerySelection resets the comparison selection, as happens when
// the gallery view is opened or closed.
func (c *Controller) ClearGallerySelection(ctx echo.Context) error {
	c.dashboard.Gallery().ClearSelection()
	return ctx.NoContent(http.StatusNoContent)
}
