// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about editor gestures and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the flow packages stay
// free of any metrics backend. [PrometheusHooks] is the bundled backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	    observability.SetEditorHooks(h)
//	    observability.SetHTTPHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	err := g.ValidateConnection(c)
//	observability.Editor().OnConnect(c.Source, c.Target, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the flow store, the serializer and the
// edit session.
type EditorHooks interface {
	// OnConnect records a connect attempt. err is nil when the edge was admitted.
	OnConnect(source, target string, err error)

	// OnRemove records a delete, with the number of nodes and edges removed
	// (cascades included).
	OnRemove(nodes, edges int)

	// OnImport records an import attempt. err is nil on success.
	OnImport(nodes, edges int, err error)

	// OnExport records a successful export.
	OnExport(nodes, edges int)

	// OnEditTransition records an edit session state change.
	OnEditTransition(from, to, reason string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP gesture adapter.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(method, route string)

	// OnResponse records a completed response.
	OnResponse(method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnConnect(string, string, error)         {}
func (NoopEditorHooks) OnRemove(int, int)                       {}
func (NoopEditorHooks) OnImport(int, int, error)                {}
func (NoopEditorHooks) OnExport(int, int)                       {}
func (NoopEditorHooks) OnEditTransition(string, string, string) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(string, string)                      {}
func (NoopHTTPHooks) OnResponse(string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any flow is edited.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
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
	editorHooks = NoopEditorHooks{}
	httpHooks = NoopHTTPHooks{}
}
