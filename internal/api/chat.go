package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type chatRequest struct {
	Text string `json:"text"`
}

// PostChat submits a user message to the assistant and returns the full
// conversation. Blank input returns the conversation unchanged. Backend
// failures come back as regular bot replies, never as HTTP errors.
func (c *Controller) PostChat(ctx echo.Context) error {
	var req chatRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid chat request", http.StatusBadRequest)
	}

	messages := c.dashboard.Chat(ctx.Request().Context(), req.Text)
	return ctx.JSON(http.StatusOK, map[string]any{
		"messages": messages,
	})
}

// GetChat returns the conversation history.
func (c *Controller) GetChat(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"messages": c.dashboard.Messages(),
	})
}
