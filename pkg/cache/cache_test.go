package cache

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before any Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get = (%q, %v), want (value, true)", data, hit)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get of expired entry should miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tk1 := k.TechKey("aaa")
	tk2 := k.TechKey("bbb")
	if tk1 == tk2 {
		t.Error("Different tech hashes should produce different keys")
	}
	if !strings.HasPrefix(tk1, "tech:") {
		t.Errorf("TechKey should carry stage prefix: %s", tk1)
	}

	// PlanKey should include options in hash
	pk1 := k.PlanKey("aaa", PlanKeyOpts{Cell: "esd_small", TopLayer: 4})
	pk2 := k.PlanKey("aaa", PlanKeyOpts{Cell: "esd_small", TopLayer: 5})
	if pk1 == pk2 {
		t.Error("Different PlanKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("aaa", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("aaa", ArtifactKeyOpts{Format: "json"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:123:")

	key := scoped.PlanKey("aaa", PlanKeyOpts{Cell: "esd_small"})
	if !strings.HasPrefix(key, "tenant:123:plan:") {
		t.Errorf("ScopedKeyer PlanKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.TechKey("aaa")
	if !strings.HasPrefix(key, "prefix:tech:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	base := errors.New("connection refused")
	err := Retryable(base)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != base.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errors.New("transient"))
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
