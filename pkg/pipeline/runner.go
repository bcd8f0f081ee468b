package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jmorra/clampgen/pkg/cache"
	"github.com/jmorra/clampgen/pkg/observability"
	"github.com/jmorra/clampgen/pkg/plan"
	"github.com/jmorra/clampgen/pkg/render"
	"github.com/jmorra/clampgen/pkg/tech"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete plan → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Plan
	planStart := time.Now()
	layout, planHit, err := r.PlanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.WireCount = len(layout.Wires)
	result.Stats.PinCount = len(layout.Pins)
	result.CacheInfo.PlanHit = planHit

	// Compute layout hash for cache keys and API responses
	if layoutData, err := render.RenderJSON(layout); err == nil {
		result.LayoutHash = cache.Hash(layoutData)
	}

	r.Logger.Info("planned clamp routing",
		"cell", layout.Cell,
		"top_layer", layout.TopLayer,
		"wires", len(layout.Wires),
		"duration", result.Stats.PlanTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlanWithCacheInfo computes the routing plan with caching and returns
// cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, opts Options) (*render.Layout, bool, error) {
	if err := opts.ValidateForPlan(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	techHash := cache.Hash(opts.TechData)
	cacheKey := r.Keyer.PlanKey(techHash, cache.PlanKeyOpts{
		Cell:     opts.Cell,
		TopLayer: opts.TopLayer,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			layout, err := render.ParseJSON(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return layout, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	start := time.Now()
	observability.Planner().OnPlanStart(ctx, opts.Cell, opts.TopLayer)
	layout, err := computePlan(opts)
	observability.Planner().OnPlanComplete(ctx, opts.Cell, opts.TopLayer, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := render.RenderJSON(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan)
		observability.Cache().OnCacheSet(ctx, "plan", len(data))
	}

	return layout, false, nil // Cache miss
}

// computePlan parses the technology document and runs the planner.
func computePlan(opts Options) (*render.Layout, error) {
	tc, err := tech.Parse(opts.TechData)
	if err != nil {
		return nil, err
	}
	planner, err := plan.New(tc)
	if err != nil {
		return nil, err
	}
	res, err := planner.Run(plan.Options{Cell: opts.Cell, TopLayer: opts.TopLayer})
	if err != nil {
		return nil, err
	}
	return render.FromResult(res, planner.Grid()), nil
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Plan(ctx context.Context, opts Options) (*render.Layout, error) {
	layout, _, err := r.PlanWithCacheInfo(ctx, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *render.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := render.RenderJSON(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{
			Format: format,
			Scale:  opts.Scale,
		})
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Planner().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(layout, layoutData, opts)
	observability.Planner().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{
			Format: format,
			Scale:  opts.Scale,
		})
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout *render.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// renderFormats produces every requested artifact from the layout.
func renderFormats(layout *render.Layout, layoutJSON []byte, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			out[format] = layoutJSON
		case FormatSVG:
			svgOpts := []render.RenderOption{render.WithScale(opts.Scale)}
			if opts.Labels {
				svgOpts = append(svgOpts, render.WithLabels())
			}
			out[format] = render.RenderSVG(layout, svgOpts...)
		case FormatDOT:
			out[format] = []byte(render.ToDOT(layout))
		case FormatPNG:
			png, err := render.RenderDOTPNG(render.ToDOT(layout))
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			out[format] = png
		default:
			return nil, ValidateFormat(format)
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
