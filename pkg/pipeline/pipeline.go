// Package pipeline provides the plan → render pipeline shared by the CLI
// and the HTTP service.
//
// The pipeline has two stages:
//
//  1. Plan: parse the technology document and compute the clamp routing
//     plan, resolved into a [render.Layout].
//  2. Render: generate output artifacts (SVG, JSON, DOT, PNG) from the
//     layout.
//
// Both stages are cached content-addressed: the plan key derives from the
// technology bytes plus the planning options, the artifact keys from the
// layout bytes plus the render options. Centralizing this here keeps CLI
// and API behavior identical.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    TechData: techTOML,
//	    Cell:     "esd_small",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/render"
)

// DefaultScale is the default SVG coordinate scale factor.
const DefaultScale = 4

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return clamperr.New(clamperr.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Plan options
	TechData []byte `json:"tech_data,omitempty"`
	Cell     string `json:"cell"`
	TopLayer int    `json:"top_layer,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   int      `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the resolved planning result.
	Layout *render.Layout

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WireCount  int
	PinCount   int
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan checks required fields for planning.
func (o *Options) ValidateForPlan() error {
	if len(o.TechData) == 0 {
		return clamperr.New(clamperr.ErrCodeInvalidConfig, "technology data is required")
	}
	if err := clamperr.ValidateCellName(o.Cell); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}
