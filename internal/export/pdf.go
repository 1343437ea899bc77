package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/planktos/planktos-go/internal/errors"
)

const pdfMarginMM = 10.0

// BuildPDF wraps a captured PNG snapshot into a single landscape A4 page.
// The image is scaled to the largest size that fits inside the margins
// while preserving its aspect ratio, then centered.
func BuildPDF(snapshotPNG []byte, title string) ([]byte, error) {
	if len(snapshotPNG) == 0 {
		return nil, errors.Newf("empty snapshot").
			Category(errors.CategoryExport).
			Component("export").
			Build()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("snapshot", opts, bytes.NewReader(snapshotPNG))
	if pdf.Err() {
		return nil, errors.Newf("failed to embed snapshot: %w", pdf.Error()).
			Category(errors.CategoryExport).
			Component("export").
			Build()
	}

	pageW, pageH := pdf.GetPageSize()
	availW := pageW - 2*pdfMarginMM
	availH := pageH - 2*pdfMarginMM

	w := availW
	h := w * info.Height() / info.Width()
	if h > availH {
		h = availH
		w = h * info.Width() / info.Height()
	}
	x := (pageW - w) / 2
	y := (pageH - h) / 2

	pdf.ImageOptions("snapshot", x, y, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Newf("failed to produce pdf: %w", err).
			Category(errors.CategoryExport).
			Component("export").
			Build()
	}
	return buf.Bytes(), nil
}
