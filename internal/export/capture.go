// Package export turns the current detection state into shareable
// artifacts: a raster snapshot of the dashboard summary, a PDF report
// wrapping that snapshot, and an ordered delivery cascade that degrades
// from PDF to share link to plain raster.
package export

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/planktos/planktos-go/internal/errors"
	"github.com/planktos/planktos-go/internal/taxonomy"
)

const (
	// Base panel size before scaling. Snapshots render at double
	// resolution so the exported raster stays legible in print.
	panelWidth   = 480
	panelHeight  = 340
	captureScale = 2

	maxChartSpecies = 8
)

// Snapshot is the view state a capture renders. It is a plain value so the
// exporter has no dependency on the live controller.
type Snapshot struct {
	Title      string
	SampleName string
	CapturedAt time.Time
	Aggregate  taxonomy.AggregateCounts
	TopSpecies []taxonomy.SpeciesCount
}

// CapturePNG renders the snapshot as a PNG: per-bucket totals alongside the
// top species counts, at double resolution.
func CapturePNG(snap Snapshot) ([]byte, error) {
	bucketImg, err := renderBarChart("Counts by category", bucketBars(snap.Aggregate))
	if err != nil {
		return nil, errors.Newf("failed to render category chart: %w", err).
			Category(errors.CategoryExport).
			Component("export").
			Build()
	}

	panels := []image.Image{bucketImg}
	if bars := speciesBars(snap.TopSpecies); len(bars) > 0 {
		speciesImg, err := renderBarChart("Top species", bars)
		if err != nil {
			return nil, errors.Newf("failed to render species chart: %w", err).
				Category(errors.CategoryExport).
				Component("export").
				Build()
		}
		panels = append(panels, speciesImg)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, compose(panels)); err != nil {
		return nil, errors.Newf("failed to encode snapshot: %w", err).
			Category(errors.CategoryExport).
			Component("export").
			Build()
	}
	return buf.Bytes(), nil
}

func bucketBars(agg taxonomy.AggregateCounts) []chart.Value {
	return []chart.Value{
		{Label: "Phytoplankton", Value: agg.Phytoplankton},
		{Label: "Zooplankton", Value: agg.Zooplankton},
		{Label: "Bacteria", Value: agg.Bacteria},
		{Label: "Fungus", Value: agg.Fungus},
	}
}

func speciesBars(species []taxonomy.SpeciesCount) []chart.Value {
	if len(species) > maxChartSpecies {
		species = species[:maxChartSpecies]
	}
	bars := make([]chart.Value, 0, len(species))
	for _, s := range species {
		bars = append(bars, chart.Value{Label: s.Label, Value: s.Count})
	}
	return bars
}

func renderBarChart(title string, bars []chart.Value) (image.Image, error) {
	maxVal := 1.0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}

	ch := chart.BarChart{
		Title:      title,
		Width:      panelWidth * captureScale,
		Height:     panelHeight * captureScale,
		BarWidth:   40 * captureScale,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// compose lays the rendered panels out side by side on a white canvas.
func compose(panels []image.Image) image.Image {
	width, height := 0, 0
	for _, p := range panels {
		b := p.Bounds()
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(canvas, image.Rect(x, 0, x+b.Dx(), b.Dy()), p, b.Min, draw.Over)
		x += b.Dx()
	}
	return canvas
}
