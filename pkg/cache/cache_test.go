package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMain(m *testing.M) {
	DefaultRetry.BaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "solution:abc", []byte(`{"value":7}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "solution:abc")
	if err != nil || !hit || string(data) != `{"value":7}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "solution:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "solution:abc"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "solution:abc"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key-%d", i), []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 5 {
		t.Errorf("Clear removed %d entries, want 5", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left in cache dir", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	type doc struct {
		A int
		B string
	}
	j1, err := HashJSON(doc{1, "x"})
	if err != nil {
		t.Fatal(err)
	}
	j2, _ := HashJSON(doc{1, "x"})
	j3, _ := HashJSON(doc{2, "x"})
	if j1 != j2 || j1 == j3 {
		t.Error("HashJSON should depend only on the value")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should fail for unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	sk1 := k.SolutionKey("hash123", SolutionKeyOpts{SolverVersion: "1"})
	sk2 := k.SolutionKey("hash123", SolutionKeyOpts{SolverVersion: "2"})
	sk3 := k.SolutionKey("hash456", SolutionKeyOpts{SolverVersion: "1"})
	if sk1 == sk2 || sk1 == sk3 {
		t.Error("SolutionKey should depend on hash and options")
	}
	if !strings.HasPrefix(sk1, "solution:") {
		t.Errorf("SolutionKey unexpected prefix: %s", sk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Detailed: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	want := "api:" + inner.SolutionKey("h", SolutionKeyOpts{})
	if got := scoped.SolutionKey("h", SolutionKeyOpts{}); got != want {
		t.Errorf("ScopedKeyer SolutionKey = %s, want %s", got, want)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); !strings.HasPrefix(got, "api:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", got)
	}

	// Nil inner falls back to DefaultKeyer
	if got := NewScopedKeyer(nil, "p:").SolutionKey("h", SolutionKeyOpts{}); got != "p:"+inner.SolutionKey("h", SolutionKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrClosed) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestDefaultRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := DefaultRetry.Do(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = DefaultRetry.Do(ctx, func() error {
		calls++
		return ErrClosed
	})
	if err != ErrClosed || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = DefaultRetry.Do(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err %v, calls %d", err, calls)
	}

	// Gives up after three attempts
	calls = 0
	err = DefaultRetry.Do(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryPolicyAttempts(t *testing.T) {
	tests := []struct {
		attempts  int
		wantCalls int
	}{
		{0, 1},
		{1, 1},
		{5, 5},
	}
	for _, tt := range tests {
		calls := 0
		p := RetryPolicy{Attempts: tt.attempts, BaseDelay: time.Microsecond}
		err := p.Do(context.Background(), func() error {
			calls++
			return Retryable(ErrNetwork)
		})
		if !errors.Is(err, ErrNetwork) || calls != tt.wantCalls {
			t.Errorf("Attempts %d: err %v, calls %d, want %d", tt.attempts, err, calls, tt.wantCalls)
		}
	}
}

func TestDefaultRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultRetry.Do(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		is        error
	}{
		{"nil", nil, false, nil},
		{"miss", redis.Nil, false, redis.Nil},
		{"closed", redis.ErrClosed, false, ErrClosed},
		{"net timeout", timeoutErr{}, true, ErrNetwork},
		{"eof", io.EOF, true, ErrNetwork},
		{"loading", errors.New("LOADING Redis is loading the dataset in memory"), true, ErrNetwork},
		{"wrong type", errors.New("WRONGTYPE Operation against a key"), false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if IsRetryable(got) != tt.retryable {
				t.Errorf("IsRetryable(classify(%v)) = %v, want %v", tt.err, !tt.retryable, tt.retryable)
			}
			if tt.is != nil && !errors.Is(got, tt.is) {
				t.Errorf("classify(%v) = %v, want errors.Is %v", tt.err, got, tt.is)
			}
		})
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	// A listener that is closed immediately gives a port nobody serves.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedisCache(ctx, RedisOptions{Addr: addr, DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("NewRedisCache succeeded against a closed port")
	}
	if !strings.Contains(err.Error(), addr) {
		t.Errorf("error %q should name the address", err)
	}
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	c := NewRedisCacheFromClient(client, "knapset:")
	defer c.Close()

	if got := c.key("solution:abc"); got != "knapset:solution:abc" {
		t.Errorf("key() = %q", got)
	}
}
