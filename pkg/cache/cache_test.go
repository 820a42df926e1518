package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = (%v, %v, %v), want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ttl     time.Duration
		wantHit bool
	}{
		{"no expiry", 0, true},
		{"future expiry", time.Hour, true},
		{"expired", -time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "k:" + tt.name
			if err := c.Set(ctx, key, []byte("svg"), tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if tt.ttl < 0 {
				// Backdate the entry so it is already stale.
				raw := `{"data":"c3Zn","expires_at":"2000-01-01T00:00:00Z"}`
				if err := os.WriteFile(c.path(key), []byte(raw), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			data, hit, err := c.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if hit != tt.wantHit {
				t.Errorf("Get() hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && string(data) != "svg" {
				t.Errorf("Get() = %q, want %q", data, "svg")
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("x"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() = (%v, %v), want a clean miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get() hit after Clear")
	}
}

func TestFileCacheLayout(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	p := c.path("render:abc")
	if filepath.Dir(filepath.Dir(p)) != dir {
		t.Errorf("path(%q) = %s, want one level below %s", "render:abc", p, dir)
	}
	if !strings.HasSuffix(p, ".json") {
		t.Errorf("path() = %s, want .json suffix", p)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash() is not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Hash() collides for different inputs")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h1))
	}

	a, _ := HashJSON(map[string]int{"x": 1}, "svg")
	b, _ := HashJSON(map[string]int{"x": 2}, "svg")
	if a == b {
		t.Error("HashJSON() ignores value changes")
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	svg := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Width: 400, Height: 300})
	png := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", Width: 400, Height: 300})
	wide := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Width: 800, Height: 300})
	if svg == png || svg == wide {
		t.Errorf("ArtifactKey() ignores options: %s %s %s", svg, png, wide)
	}
	png4 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", Width: 400, Height: 300, Scale: 4})
	if png == png4 {
		t.Errorf("ArtifactKey() ignores scale: %s", png4)
	}
	other := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Width: 400, Height: 300, Measurer: "textmeasure.Heuristic"})
	if svg == other {
		t.Errorf("ArtifactKey() ignores measurer: %s", other)
	}
	if !strings.HasPrefix(svg, "artifact:") {
		t.Errorf("ArtifactKey() = %s, want artifact: prefix", svg)
	}

	tests := []struct {
		keyer Keyer
		id    string
		want  string
	}{
		{k, "ABC", "render:abc"},
		{NewScopedKeyer(k, "team:"), "abc", "team:render:abc"},
		{NewScopedKeyer(nil, "p:"), "abc", "p:render:abc"},
	}
	for _, tt := range tests {
		if got := tt.keyer.RenderKey(tt.id); got != tt.want {
			t.Errorf("RenderKey(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Retryable(ErrNetwork) = %v, want retryable ErrNetwork", err)
	}
	if IsRetryable(ErrClosed) {
		t.Error("IsRetryable(ErrClosed) = true, want false")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		failUntil int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 2, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls < tt.failUntil {
					if tt.retryable {
						return Retryable(ErrNetwork)
					}
					return ErrClosed
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
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
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	c := NewRedisCacheFromClient(client, "dotplot:")
	defer c.Close()

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, ErrNetwork) || !IsRetryable(err) {
		t.Errorf("Get() error = %v, want retryable ErrNetwork", err)
	}
}

func TestRedisCacheClosed(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "")
	_ = c.Close()
	if err := c.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close = %v, want ErrClosed", err)
	}
}

// TestRedisCache runs against a live server when DOTPLOT_TEST_REDIS is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("DOTPLOT_TEST_REDIS")
	if addr == "" {
		t.Skip("DOTPLOT_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "dotplot-test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = (%q, %v, %v), want (v, true, nil)", data, hit, err)
	}
	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() hit after Delete")
	}
}
