package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	m := NoopMutationHooks{}
	m.OnCommit("add_node", 1, time.Millisecond)
	m.OnReject("add_edge", errors.New("rejected"))

	NoopRuleHooks{}.OnViolation("single_root", "strict", "add_node", "2 roots", true)
	NoopBehaviorHooks{}.OnFailure("custom", errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "algo")
	c.OnCacheSet(ctx, "render", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/stats")
	h.OnResponse(ctx, "GET", "/stats", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Mutations().(NoopMutationHooks); !ok {
		t.Error("Mutations() should return NoopMutationHooks by default")
	}
	if _, ok := Rules().(NoopRuleHooks); !ok {
		t.Error("Rules() should return NoopRuleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRules := &testRuleHooks{}
	SetRuleHooks(customRules)
	if Rules() != customRules {
		t.Error("SetRuleHooks should set custom hooks")
	}

	customBehavior := &testBehaviorHooks{}
	SetBehaviorHooks(customBehavior)
	if Behavior() != customBehavior {
		t.Error("SetBehaviorHooks should set custom hooks")
	}

	customMutations := &testMutationHooks{}
	SetMutationHooks(customMutations)
	if Mutations() != customMutations {
		t.Error("SetMutationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Rules().(NoopRuleHooks); !ok {
		t.Error("Reset() should restore NoopRuleHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRuleHooks{}
	SetRuleHooks(custom)

	// Setting nil should be ignored
	SetRuleHooks(nil)

	if Rules() != custom {
		t.Error("SetRuleHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testMutationHooks struct{ NoopMutationHooks }
type testRuleHooks struct{ NoopRuleHooks }
type testBehaviorHooks struct{ NoopBehaviorHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
