// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about graph mutations, rule violations, behavior
// failures, cache operations and debug server requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Graph mutations are synchronous and carry no context, so the mutation,
// rule and behavior hooks take none either.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRuleHooks(&myRuleHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Rules().OnViolation("single_root", "strict", "add_node", reason, true)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Mutation Hooks
// =============================================================================

// MutationHooks receives events from collection mutations.
type MutationHooks interface {
	// OnCommit records a committed mutation and the number of store ops it
	// applied.
	OnCommit(op string, ops int, duration time.Duration)

	// OnReject records a mutation that was rolled back.
	OnReject(op string, err error)
}

// =============================================================================
// Rule Hooks
// =============================================================================

// RuleHooks receives events from rule validation.
type RuleHooks interface {
	// OnViolation records a failed rule check. blocked reports whether the
	// mutation was rejected because of it.
	OnViolation(rule, policy, op, reason string, blocked bool)
}

// =============================================================================
// Behavior Hooks
// =============================================================================

// BehaviorHooks receives events from the behavior pipeline.
type BehaviorHooks interface {
	// OnFailure records a behavior whose predicate or transform failed.
	// The value is left unchanged; the failure never reaches the caller.
	OnFailure(behavior string, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the debug HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMutationHooks is a no-op implementation of MutationHooks.
type NoopMutationHooks struct{}

func (NoopMutationHooks) OnCommit(string, int, time.Duration) {}
func (NoopMutationHooks) OnReject(string, error)              {}

// NoopRuleHooks is a no-op implementation of RuleHooks.
type NoopRuleHooks struct{}

func (NoopRuleHooks) OnViolation(string, string, string, string, bool) {}

// NoopBehaviorHooks is a no-op implementation of BehaviorHooks.
type NoopBehaviorHooks struct{}

func (NoopBehaviorHooks) OnFailure(string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	mutationHooks MutationHooks = NoopMutationHooks{}
	ruleHooks     RuleHooks     = NoopRuleHooks{}
	behaviorHooks BehaviorHooks = NoopBehaviorHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetMutationHooks registers custom mutation hooks.
// This should be called once at application startup before any graph is mutated.
func SetMutationHooks(h MutationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mutationHooks = h
	}
}

// SetRuleHooks registers custom rule hooks.
func SetRuleHooks(h RuleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ruleHooks = h
	}
}

// SetBehaviorHooks registers custom behavior hooks.
func SetBehaviorHooks(h BehaviorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		behaviorHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Mutations returns the registered mutation hooks.
func Mutations() MutationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mutationHooks
}

// Rules returns the registered rule hooks.
func Rules() RuleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ruleHooks
}

// Behavior returns the registered behavior hooks.
func Behavior() BehaviorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return behaviorHooks
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
	mutationHooks = NoopMutationHooks{}
	ruleHooks = NoopRuleHooks{}
	behaviorHooks = NoopBehaviorHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
