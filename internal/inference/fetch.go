package inference

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/planktos/planktos-go/internal/errors"
)

// maxAnnotatedImageSize bounds the annotated image download; anything larger
// is refused rather than ballooning the gallery slot.
const maxAnnotatedImageSize = 8 << 20

// FetchAnnotatedImage downloads the annotated image the backend referenced
// and returns it as a self-contained data URL suitable for gallery storage,
// so the saved copy survives invalidation of the backend URL.
//
// Fetches are cached per URL. This is a best-effort side effect of a
// detection: callers log failures to the operator channel and never surface
// them to the user.
func (c *Client) FetchAnnotatedImage(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errors.Newf("empty annotated image url").
			Category(errors.CategoryValidation).
			Component("inference").
			Build()
	}

	if cached, ok := c.imageCache.Get(url); ok {
		if dataURL, ok := cached.(string); ok {
			return dataURL, nil
		}
	}

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return "", errors.Newf("failed to fetch annotated image: %w", err).
			Category(errors.CategoryImageFetch).
			Component("inference").
			Context("url", url).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("annotated image fetch returned status %d", resp.StatusCode).
			Category(errors.CategoryImageFetch).
			Component("inference").
			Context("url", url).
			Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAnnotatedImageSize+1))
	if err != nil {
		return "", errors.Newf("failed to read annotated image: %w", err).
			Category(errors.CategoryImageFetch).
			Component("inference").
			Build()
	}
	if len(data) > maxAnnotatedImageSize {
		return "", errors.Newf("annotated image exceeds %d bytes", maxAnnotatedImageSize).
			Category(errors.CategoryImageFetch).
			Component("inference").
			Build()
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	c.imageCache.SetDefault(url, dataURL)
	return dataURL, nil
}
