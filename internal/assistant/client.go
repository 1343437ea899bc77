// Package assistant proxies free-text questions to the remote chat backend
// and maintains the append-only conversation log shown in the dashboard
// chat box. The chat model itself is an opaque remote service.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/planktos/planktos-go/internal/httpclient"
	"github.com/planktos/planktos-go/internal/logging"
)

const chatPath = "/chat"

// Client talks to the remote chat backend.
type Client struct {
	baseURL string
	http    *httpclient.Client
	logger  *slog.Logger
}

// New creates a chat client for the backend at baseURL.
func New(baseURL string, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logging.ForService("assistant"),
	}
}

// SubmitMessage sends text to the chat backend and returns the text to show
// as the bot reply. Blank or whitespace-only input returns the empty string
// and is ignored by callers.
//
// Every failure class degrades into a displayed reply rather than an error:
// a non-2xx status shows the raw error body, a non-JSON success body is
// shown as-is, a network failure produces a distinct network-error message,
// and a JSON body with no recognized reply field produces the diagnostic
// described in ExtractReply. The chat UI is never left dead-ended.
func (c *Client) SubmitMessage(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Sprintf("Network or unexpected error calling API: %v", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+chatPath, "application/json", payload)
	if err != nil {
		c.logger.Error("chat request failed", "error", err)
		return fmt.Sprintf("Network or unexpected error calling API: %v", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		raw = []byte("<failed-to-read-body>")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("chat backend returned error status", "status", resp.StatusCode)
		return fmt.Sprintf("Server error %d: %s", resp.StatusCode, string(raw))
	}

	if !gjson.ValidBytes(raw) {
		c.logger.Warn("chat backend returned non-JSON body")
		return fmt.Sprintf("API (raw): %s", string(raw))
	}

	reply, matched := ExtractReply(raw)
	if !matched {
		c.logger.Warn("chat response had no recognized reply field")
	}
	return reply
}
