package export

import (
	"context"
	"log/slog"

	"github.com/planktos/planktos-go/internal/errors"
	"github.com/planktos/planktos-go/internal/logging"
)

const (
	reportPDFName = "dashboard_report.pdf"
	reportPNGName = "dashboard_report.png"
)

// Delivery is the artifact a share attempt produced. Exactly one of Data or
// Link is populated, depending on the method.
type Delivery struct {
	Method   string `json:"method"`
	Filename string `json:"filename,omitempty"`
	MIME     string `json:"mime,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Strategy attempts one delivery method for the snapshot.
type Strategy struct {
	Name    string
	Deliver func(ctx context.Context, snap Snapshot) (*Delivery, error)
}

// Service produces and shares dashboard reports.
type Service struct {
	title      string
	shareLink  string
	logger     *slog.Logger
	strategies []Strategy
}

// Option adjusts a Service.
type Option func(*Service)

// WithStrategies replaces the delivery cascade, in order of preference.
func WithStrategies(strategies ...Strategy) Option {
	return func(s *Service) { s.strategies = strategies }
}

// NewService creates an export service. shareLink, when non-empty, enables
// the link delivery method.
func NewService(title, shareLink string, opts ...Option) *Service {
	s := &Service{
		title:     title,
		shareLink: shareLink,
		logger:    logging.ForService("export"),
	}
	s.strategies = []Strategy{
		{Name: "pdf", Deliver: s.deliverPDF},
		{Name: "link", Deliver: s.deliverLink},
		{Name: "png", Deliver: s.deliverPNG},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture renders the snapshot raster.
func (s *Service) Capture(snap Snapshot) ([]byte, error) {
	if snap.Title == "" {
		snap.Title = s.title
	}
	return CapturePNG(snap)
}

// PDF renders the snapshot and wraps it into the report page.
func (s *Service) PDF(snap Snapshot) ([]byte, error) {
	img, err := s.Capture(snap)
	if err != nil {
		return nil, err
	}
	return BuildPDF(img, s.title)
}

// Share walks the delivery cascade in order and returns the first
// successful delivery. Each failed attempt is logged and the next method is
// tried; only exhaustion of every method surfaces as an error.
func (s *Service) Share(ctx context.Context, snap Snapshot) (*Delivery, error) {
	for _, strat := range s.strategies {
		delivery, err := strat.Deliver(ctx, snap)
		if err == nil {
			return delivery, nil
		}
		s.logger.Warn("share method failed, trying next",
			"method", strat.Name,
			"error", err)
	}
	return nil, errors.Newf("could not share or export the report").
		Category(errors.CategoryExport).
		Component("export").
		Build()
}

func (s *Service) deliverPDF(_ context.Context, snap Snapshot) (*Delivery, error) {
	data, err := s.PDF(snap)
	if err != nil {
		return nil, err
	}
	return &Delivery{
		Method:   "pdf",
		Filename: reportPDFName,
		MIME:     "application/pdf",
		Data:     data,
	}, nil
}

func (s *Service) deliverLink(_ context.Context, _ Snapshot) (*Delivery, error) {
	if s.shareLink == "" {
		return nil, errors.Newf("no share link configured").
			Category(errors.CategoryConfiguration).
			Component("export").
			Build()
	}
	return &Delivery{Method: "link", Link: s.shareLink}, nil
}

func (s *Service) deliverPNG(_ context.Context, snap Snapshot) (*Delivery, error) {
	data, err := s.Capture(snap)
	if err != nil {
		return nil, err
	}
	return &Delivery{
		Method:   "png",
		Filename: reportPNGName,
		MIME:     "image/png",
		Data:     data,
	}, nil
}
