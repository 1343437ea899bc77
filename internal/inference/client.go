// Package inference is the thin HTTP client for the remote inference
// backend. It submits uploaded microscope images to /predict and normalizes
// the heterogeneous response shapes the backend is known to produce.
package inference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/planktos/planktos-go/internal/errors"
	"github.com/planktos/planktos-go/internal/httpclient"
	"github.com/planktos/planktos-go/internal/logging"
	"github.com/planktos/planktos-go/internal/taxonomy"
)

const (
	predictPath = "/predict"
	healthPath  = "/health"

	// Fetched annotated images are kept briefly so a re-render or retry
	// does not refetch the same URL.
	imageCacheTTL     = 15 * time.Minute
	imageCacheCleanup = 30 * time.Minute
)

// Result is the normalized outcome of a successful /predict call.
type Result struct {
	// RawCounts is the per-species mapping, taken from counts_raw with
	// counts as the fallback key; non-numeric entries count as 0. Replaces
	// prior detection state wholesale.
	RawCounts map[string]float64
	// Aggregate holds per-bucket totals. A server-supplied counts_agg is
	// trusted verbatim when present; otherwise it is recomputed locally
	// from RawCounts, never left stale.
	Aggregate taxonomy.AggregateCounts
	// AnnotatedImageURL optionally references a server-rendered image with
	// detection overlays, distinct from the originally uploaded file.
	AnnotatedImageURL string
}

// predictResponse mirrors the backend's JSON response shape. The counts
// mappings decode loosely: the backend is known to emit the occasional
// non-numeric value, and one bad entry must not reject the response.
type predictResponse struct {
	CountsRaw         map[string]any            `json:"counts_raw"`
	Counts            map[string]any            `json:"counts"`
	CountsAgg         *taxonomy.AggregateCounts `json:"counts_agg"`
	AnnotatedImageURL string                    `json:"annotated_image_url"`
}

// Client talks to the remote inference backend.
type Client struct {
	baseURL    string
	http       *httpclient.Client
	logger     *slog.Logger
	imageCache *cache.Cache
}

// New creates an inference client for the backend at baseURL.
func New(baseURL string, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       hc,
		logger:     logging.ForService("inference"),
		imageCache: cache.New(imageCacheTTL, imageCacheCleanup),
	}
}

// SubmitImage posts the image to /predict as multipart field "file" and
// normalizes the response.
//
// Failure modes map onto the dashboard's error taxonomy:
//   - transport failure -> CategoryNetwork
//   - non-2xx status    -> CategoryServerError, raw body carried verbatim
//   - unparsable 2xx    -> CategoryMalformedResponse
//
// None of them update detection state; the caller surfaces the message.
func (c *Client) SubmitImage(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err).Category(errors.CategoryGeneric).Component("inference").Build()
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Newf("failed to read upload: %w", err).
			Category(errors.CategoryFileIO).
			Component("inference").
			Build()
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err).Category(errors.CategoryGeneric).Component("inference").Build()
	}

	resp, err := c.http.Post(ctx, c.baseURL+predictPath, writer.FormDataContentType(), body.String())
	if err != nil {
		return nil, errors.Newf("network error: %w", err).
			Category(errors.CategoryNetwork).
			Component("inference").
			Build()
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		raw = []byte("<unreadable body>")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// the raw response body is surfaced verbatim as the user-visible error
		return nil, errors.Newf("server error %d: %s", resp.StatusCode, string(raw)).
			Category(errors.CategoryServerError).
			Component("inference").
			Context("status", resp.StatusCode).
			Build()
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Newf("server returned malformed response: %w", err).
			Category(errors.CategoryMalformedResponse).
			Component("inference").
			Build()
	}

	return normalize(&parsed), nil
}

// Ping reports whether the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.baseURL+healthPath)
	if err != nil {
		return errors.Newf("backend unreachable: %w", err).
			Category(errors.CategoryNetwork).
			Component("inference").
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("backend health returned status %d", resp.StatusCode).
			Category(errors.CategoryServerError).
			Component("inference").
			Build()
	}
	return nil
}

// normalize applies the fallback rules for the response's optional fields.
func normalize(parsed *predictResponse) *Result {
	source := parsed.CountsRaw
	if source == nil {
		source = parsed.Counts
	}

	rawCounts := make(map[string]float64, len(source))
	for label, value := range source {
		rawCounts[label] = coerceCount(value)
	}

	var agg taxonomy.AggregateCounts
	if parsed.CountsAgg != nil {
		agg = *parsed.CountsAgg
	} else {
		agg = taxonomy.Aggregate(rawCounts)
	}

	return &Result{
		RawCounts:         rawCounts,
		Aggregate:         agg,
		AnnotatedImageURL: parsed.AnnotatedImageURL,
	}
}

// coerceCount turns a loosely-typed count entry into a number. Numeric
// strings are accepted, anything non-numeric or non-finite counts as 0.
func coerceCount(value any) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
