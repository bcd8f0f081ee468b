// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about planner execution, cache
// operations, and HTTP handling.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlannerHooks(&myPlannerHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Planner().OnPlanStart(ctx, cell, topLayer)
//	// ... plan ...
//	observability.Planner().OnPlanComplete(ctx, cell, topLayer, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Planner Hooks
// =============================================================================

// PlannerHooks receives events from the planning pipeline.
type PlannerHooks interface {
	// Plan events
	OnPlanStart(ctx context.Context, cell string, topLayer int)
	OnPlanComplete(ctx context.Context, cell string, topLayer int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnPlanStart(context.Context, string, int) {}
func (NoopPlannerHooks) OnPlanComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPlannerHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPlannerHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plannerHooks PlannerHooks = NoopPlannerHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetPlannerHooks registers custom planner hooks.
// This should be called once at application startup before any planning.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
	cacheHooks = NoopCacheHooks{}
}
