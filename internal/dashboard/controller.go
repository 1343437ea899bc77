package dashboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/planktos/planktos-go/internal/assistant"
	"github.com/planktos/planktos-go/internal/errors"
	"github.com/planktos/planktos-go/internal/export"
	"github.com/planktos/planktos-go/internal/gallery"
	"github.com/planktos/planktos-go/internal/inference"
	"github.com/planktos/planktos-go/internal/logging"
)

// Controller owns the dashboard state and coordinates the inference,
// assistant, gallery and export components. All state mutation goes through
// Reduce under the controller's lock; remote calls run outside it.
//
// Concurrent uploads are not serialized: whichever response arrives last
// determines the displayed state.
type Controller struct {
	mu    sync.Mutex
	state State

	inference *inference.Client
	assistant *assistant.Client
	gallery   *gallery.Store
	exporter  *export.Service
	chat      *assistant.ConversationLog

	placeholder string
	title       string
	logger      *slog.Logger
	operator    *slog.Logger
}

// Config assembles a controller from its collaborators.
type Config struct {
	Inference *inference.Client
	Assistant *assistant.Client
	Gallery   *gallery.Store
	Exporter  *export.Service
	// Greeting seeds the conversation log before any interaction.
	Greeting string
	// Placeholder is the transient bot turn shown while a reply is pending.
	Placeholder string
	// Title labels exported reports.
	Title string
}

// NewController creates the dashboard controller.
func NewController(cfg Config) *Controller {
	return &Controller{
		inference:   cfg.Inference,
		assistant:   cfg.Assistant,
		gallery:     cfg.Gallery,
		exporter:    cfg.Exporter,
		chat:        assistant.NewConversationLog(cfg.Greeting),
		placeholder: cfg.Placeholder,
		title:       cfg.Title,
		logger:      logging.ForService("dashboard"),
		operator:    logging.Operator(),
	}
}

// Upload submits an image for detection and applies the outcome to the
// dashboard state. On success the annotated image, when the backend returns
// one, replaces the displayed upload and is auto-saved into the gallery as a
// best-effort side effect. On failure the previous detection state is kept
// and the error message is recorded.
func (c *Controller) Upload(ctx context.Context, name string, r io.Reader) (State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return c.Snapshot(), errors.Newf("failed to read upload: %w", err).
			Category(errors.CategoryFileIO).
			Component("dashboard").
			Build()
	}

	c.dispatch(UploadStarted{Name: name, ImageData: toDataURL(data)})

	result, err := c.inference.SubmitImage(ctx, name, bytes.NewReader(data))
	if err != nil {
		c.logger.Error("detection failed", "file", name, "error", err)
		return c.dispatch(DetectionFailed{Message: err.Error()}), err
	}

	display := ""
	if result.AnnotatedImageURL != "" {
		display = c.annotatedImage(ctx, name, result.AnnotatedImageURL)
	}

	return c.dispatch(DetectionReceived{
		RawCounts:    result.RawCounts,
		Aggregate:    result.Aggregate,
		DisplayImage: display,
	}), nil
}

// annotatedImage fetches the annotated image for display and auto-saves it
// into the gallery. Both are best effort: a failure is logged for the
// operator and never surfaces to the user.
func (c *Controller) annotatedImage(ctx context.Context, name, url string) string {
	dataURL, err := c.inference.FetchAnnotatedImage(ctx, url)
	if err != nil {
		c.operator.Warn("annotated image fetch failed",
			"service", "dashboard",
			"url", url,
			"error", err)
		// the remote URL still works for display as long as the backend
		// keeps it alive
		return url
	}

	// persist failures inside Add are already operator-logged
	c.gallery.Add("annotated_"+name, dataURL, true)
	return dataURL
}

// SaveCurrentUpload stores the currently displayed image in the gallery.
func (c *Controller) SaveCurrentUpload() (gallery.Item, error) {
	s := c.Snapshot()
	if s.UploadedImage == "" {
		return gallery.Item{}, errors.Newf("no uploaded image to save").
			Category(errors.CategoryValidation).
			Component("dashboard").
			Build()
	}
	return c.gallery.Add(s.UploadedName, s.UploadedImage, false), nil
}

// Chat submits a message to the assistant and returns the updated
// conversation. Blank input is ignored without appending any turn. The
// pending placeholder turn stays in the history once the reply arrives.
func (c *Controller) Chat(ctx context.Context, text string) []assistant.Message {
	if strings.TrimSpace(text) == "" {
		return c.chat.Messages()
	}

	c.chat.AppendUser(text)
	c.chat.AppendPlaceholder(c.placeholder)

	reply := c.assistant.SubmitMessage(ctx, text)
	c.chat.AppendBot(reply)
	return c.chat.Messages()
}

// Messages returns the conversation history.
func (c *Controller) Messages() []assistant.Message {
	return c.chat.Messages()
}

// Snapshot returns a copy of the current dashboard state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.RawCounts != nil {
		s.RawCounts = maps.Clone(s.RawCounts)
	}
	return s
}

// PingBackend reports whether the inference backend is reachable.
func (c *Controller) PingBackend(ctx context.Context) error {
	return c.inference.Ping(ctx)
}

// Gallery exposes the gallery store to the HTTP layer.
func (c *Controller) Gallery() *gallery.Store {
	return c.gallery
}

// ExportPDF renders the current state as the PDF report.
func (c *Controller) ExportPDF() ([]byte, error) {
	return c.exporter.PDF(c.exportSnapshot())
}

// ExportPNG renders the current state as the raster snapshot.
func (c *Controller) ExportPNG() ([]byte, error) {
	return c.exporter.Capture(c.exportSnapshot())
}

// Share runs the delivery cascade for the current state.
func (c *Controller) Share(ctx context.Context) (*export.Delivery, error) {
	return c.exporter.Share(ctx, c.exportSnapshot())
}

func (c *Controller) exportSnapshot() export.Snapshot {
	s := c.Snapshot()
	return export.Snapshot{
		Title:      c.title,
		SampleName: s.UploadedName,
		CapturedAt: time.Now(),
		Aggregate:  s.Aggregate,
		TopSpecies: s.TopSpecies(8),
	}
}

func (c *Controller) dispatch(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, ev)
	return c.state
}

func toDataURL(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return "data:" + http.DetectContentType(data) + ";base64," +
		base64.StdEncoding.EncodeToString(data)
}
