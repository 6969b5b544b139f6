// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about grid mutations, sketch storage, the export cache and
// served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main (or the serve command), never by libraries,
// which keeps pkg/sketch free of metrics imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSketchHooks(&mySketchHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Sketch().OnFill("greyscale")
//	observability.Store().OnSave(ctx, "redis", size, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sketch Hooks
// =============================================================================

// SketchHooks receives events from grid controllers.
// Grid operations are synchronous and never block, so these hooks take no context.
type SketchHooks interface {
	// OnFill records one cell fill in the given mode.
	OnFill(mode string)

	// OnClear records a clear of the given number of cells.
	OnClear(cells int)

	// OnResize records a grid rebuild from one size to another.
	OnResize(from, to int)

	// OnModeChange records a mode switch.
	OnModeChange(from, to string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from sketch stores.
type StoreHooks interface {
	// OnSave records a save attempt on the named backend.
	OnSave(ctx context.Context, backend string, size int, err error)

	// OnLoad records a load attempt; hit is false when the sketch did not exist.
	OnLoad(ctx context.Context, backend string, hit bool, err error)

	// OnDelete records a delete attempt.
	OnDelete(ctx context.Context, backend string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the export artifact cache.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records a served request. route is the matched route pattern.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSketchHooks is a no-op implementation of SketchHooks.
type NoopSketchHooks struct{}

func (NoopSketchHooks) OnFill(string)               {}
func (NoopSketchHooks) OnClear(int)                 {}
func (NoopSketchHooks) OnResize(int, int)           {}
func (NoopSketchHooks) OnModeChange(string, string) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, int, error)  {}
func (NoopStoreHooks) OnLoad(context.Context, string, bool, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, error)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sketchHooks SketchHooks = NoopSketchHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetSketchHooks registers custom sketch hooks.
// This should be called once at application startup before any grid is built.
func SetSketchHooks(h SketchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sketchHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Sketch returns the registered sketch hooks.
func Sketch() SketchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sketchHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sketchHooks = NoopSketchHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
