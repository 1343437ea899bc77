// Package dashboard owns the transient UI state of the detection view and
// orchestrates the gallery, inference, assistant and export components in
// response to user actions.
//
// All remote-driven transitions are modeled as discrete state-transition
// functions: Reduce takes the previous State and an Event and returns the
// next State, so the update logic is unit-testable without a rendering
// environment or live backend.
package dashboard

import (
	"maps"

	"github.com/planktos/planktos-go/internal/taxonomy"
)

// State is the dashboard's detection view state. It is purely derived from
// the most recent successful inference response, held only in memory and
// lost on restart; the gallery carries the durable history.
type State struct {
	// RawCounts is the per-species mapping from the latest detection,
	// replaced wholesale on each new upload, never merged.
	RawCounts map[string]float64 `json:"raw_counts"`
	// Aggregate holds the per-bucket totals for RawCounts.
	Aggregate taxonomy.AggregateCounts `json:"aggregate"`
	// UploadedName is the file name of the displayed image.
	UploadedName string `json:"uploaded_name"`
	// UploadedImage is the displayed image: the upload as a data URL, or
	// the annotated image once the backend returns one.
	UploadedImage string `json:"uploaded_image,omitempty"`
	// Loading is true while an upload is in flight. With no timeout on
	// remote calls a hung request leaves it set indefinitely.
	Loading bool `json:"loading"`
	// LastError is the user-visible error from the most recent failed
	// upload, empty after a success.
	LastError string `json:"last_error,omitempty"`
}

// Event is a discrete state transition trigger.
type Event interface {
	isEvent()
}

// UploadStarted marks the beginning of an upload round trip.
type UploadStarted struct {
	Name      string
	ImageData string
}

// DetectionReceived carries a successful inference outcome.
type DetectionReceived struct {
	RawCounts map[string]float64
	Aggregate taxonomy.AggregateCounts
	// DisplayImage, when non-empty, replaces the displayed image (the
	// annotated image returned by the backend).
	DisplayImage string
}

// DetectionFailed carries the user-visible message of a failed upload.
// Detection state from the previous success is left untouched.
type DetectionFailed struct {
	Message string
}

func (UploadStarted) isEvent()     {}
func (DetectionReceived) isEvent() {}
func (DetectionFailed) isEvent()   {}

// Reduce applies an event to the previous state and returns the next state.
// The previous state is never mutated.
func Reduce(prev State, ev Event) State {
	next := prev
	if prev.RawCounts != nil {
		next.RawCounts = maps.Clone(prev.RawCounts)
	}

	switch e := ev.(type) {
	case UploadStarted:
		next.UploadedName = e.Name
		next.UploadedImage = e.ImageData
		next.Loading = true
		next.LastError = ""

	case DetectionReceived:
		next.RawCounts = maps.Clone(e.RawCounts)
		if next.RawCounts == nil {
			next.RawCounts = map[string]float64{}
		}
		next.Aggregate = e.Aggregate
		if e.DisplayImage != "" {
			next.UploadedImage = e.DisplayImage
		}
		next.Loading = false
		next.LastError = ""

	case DetectionFailed:
		next.Loading = false
		next.LastError = e.Message
	}

	return next
}

// TopSpecies returns the highest raw counts for the summary chart.
func (s State) TopSpecies(n int) []taxonomy.SpeciesCount {
	return taxonomy.TopSpecies(s.RawCounts, n)
}
