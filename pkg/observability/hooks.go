// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about enumeration runs, catalog operations, and HTTP
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The HTTP server registers Prometheus-backed hooks; the CLI keeps the no-op
// defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCatalogHooks(&myCatalogHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnEnumerateStart(ctx, "bracelet", n)
//	// ... enumerate ...
//	observability.Pipeline().OnEnumerateComplete(ctx, "bracelet", count, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from enumeration and search runs.
type PipelineHooks interface {
	// Enumerate events
	OnEnumerateStart(ctx context.Context, mode string, n int)
	OnEnumerateComplete(ctx context.Context, mode string, results int, duration time.Duration, err error)

	// Search events, one pair per code length
	OnSearchStart(ctx context.Context, length int, objective string)
	OnSearchComplete(ctx context.Context, length int, objective string, candidates int, duration time.Duration, err error)

	// Export events
	OnExportComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Catalog Hooks
// =============================================================================

// CatalogHooks receives events from catalog stores.
type CatalogHooks interface {
	// OnCatalogHit records a successful lookup.
	OnCatalogHit(ctx context.Context, backend string)

	// OnCatalogMiss records a lookup for a code that was never recorded.
	OnCatalogMiss(ctx context.Context, backend string)

	// OnCatalogPut records a write attempt and whether it replaced the
	// stored record.
	OnCatalogPut(ctx context.Context, backend string, improved bool)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnEnumerateStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnEnumerateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSearchStart(context.Context, int, string) {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, int, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, time.Duration, error) {}

// NoopCatalogHooks is a no-op implementation of CatalogHooks.
type NoopCatalogHooks struct{}

func (NoopCatalogHooks) OnCatalogHit(context.Context, string)       {}
func (NoopCatalogHooks) OnCatalogMiss(context.Context, string)      {}
func (NoopCatalogHooks) OnCatalogPut(context.Context, string, bool) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	catalogHooks  CatalogHooks  = NoopCatalogHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCatalogHooks registers custom catalog hooks.
func SetCatalogHooks(h CatalogHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		catalogHooks = h
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

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Catalog returns the registered catalog hooks.
func Catalog() CatalogHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return catalogHooks
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
	pipelineHooks = NoopPipelineHooks{}
	catalogHooks = NoopCatalogHooks{}
	httpHooks = NoopHTTPHooks{}
}
