package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get on empty cache hit")
	}
	if err := c.Set(ctx, "k", []byte("svg"), 0); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "svg" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if n, err := c.Clear(); err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	svg := k.ArtifactKey("h1", ArtifactKeyOpts{Format: "svg"})
	dot := k.ArtifactKey("h1", ArtifactKeyOpts{Format: "dot"})
	path := k.ArtifactKey("h1", ArtifactKeyOpts{Format: "svg", Highlight: []string{"a", "b"}})
	if svg == dot || svg == path {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if svg != k.ArtifactKey("h1", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("ArtifactKey is not deterministic")
	}
	if svg == k.ArtifactKey("h2", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("different snapshots should produce different keys")
	}

	r1 := k.ReportKey("h1", ReportKeyOpts{Algorithm: "shortest_path", Args: []string{"a", "b"}})
	r2 := k.ReportKey("h1", ReportKeyOpts{Algorithm: "shortest_path", Args: []string{"b", "a"}})
	if r1 == r2 {
		t.Error("different ReportKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(r1, "report:") {
		t.Errorf("ReportKey = %s, want report: prefix", r1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "team:7:")
	key := scoped.ReportKey("h", ReportKeyOpts{Algorithm: "stats"})
	if !strings.HasPrefix(key, "team:7:report:") {
		t.Errorf("ScopedKeyer ReportKey = %s", key)
	}
	if got := KeyType(key); got != "report" {
		t.Errorf("KeyType(%s) = %q, want report", key, got)
	}
	if got := KeyType("nonsense"); got != "unknown" {
		t.Errorf("KeyType(nonsense) = %q", got)
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	key := NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "dot"})

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("digraph {}"), nil
	}
	data, hit, err := Fetch(ctx, c, key, TTLArtifact, compute)
	if err != nil || hit || string(data) != "digraph {}" {
		t.Fatalf("first Fetch = %q, %v, %v", data, hit, err)
	}
	data, hit, err = Fetch(ctx, c, key, TTLArtifact, compute)
	if err != nil || !hit || string(data) != "digraph {}" {
		t.Fatalf("second Fetch = %q, %v, %v", data, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, _, err := Fetch(ctx, c, "other", 0, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("Fetch error = %v, want boom", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrBackend)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	ctx := context.Background()
	final := errors.New("final")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"non-retryable", 5, final, 1, final},
		{"retry then success", 1, Retryable(ErrBackend), 2, nil},
		{"gives up", 5, Retryable(ErrBackend), 3, ErrBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrBackend)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
