package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestVerdictKey_Normalizes(t *testing.T) {
	a := VerdictKey("perplexity", "sonar-pro", "The sky is green.")
	b := VerdictKey("perplexity", "sonar-pro", "  the   SKY is\tgreen. ")
	if a != b {
		t.Errorf("expected equal keys, got %s and %s", a, b)
	}

	if a == VerdictKey("openai", "sonar-pro", "The sky is green.") {
		t.Error("expected provider to change the key")
	}
	if a == VerdictKey("perplexity", "sonar", "The sky is green.") {
		t.Error("expected model to change the key")
	}
	if len(a) != len("factcheck:v1:")+64 {
		t.Errorf("unexpected key length: %d", len(a))
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("expected v, got %q (found=%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 item, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 20*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := VerdictKey("perplexity", "sonar-pro", "claim")

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss")
	}

	if err := c.Set(key, []byte(`{"verdict":"TRUE"}`), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := c.Get(key)
	if !ok || !bytes.Equal(got, []byte(`{"verdict":"TRUE"}`)) {
		t.Errorf("unexpected value %q (found=%v)", got, ok)
	}

	// Survives a new instance over the same directory
	if _, ok := NewDiskCache(dir, time.Hour).Get(key); !ok {
		t.Error("expected hit from a second instance")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected exactly one cache file, got %d", len(entries))
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("delete: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("delete of missing key should not fail: %v", err)
	}
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("old", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get("old"); ok {
		t.Error("expected expired entry to miss")
	}

	corrupt := c.path("bad")
	if err := os.WriteFile(corrupt, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("expected corrupt entry to miss")
	}
	if _, err := os.Stat(corrupt); !os.IsNotExist(err) {
		t.Error("expected corrupt entry to be removed")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	_ = c.Set("a", []byte("1"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestLayeredCache_PromotesBackHits(t *testing.T) {
	front := NewMemoryCache(time.Minute, time.Minute)
	back := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayers(front, back)

	_ = back.Set("k", []byte("v"), 0)

	if _, ok := front.Get("k"); ok {
		t.Fatal("front should start empty")
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected v, got %q", got)
	}
	if _, ok := front.Get("k"); !ok {
		t.Error("expected back-cache hit to be promoted")
	}

	_ = c.Set("n", []byte("x"), 0)
	if _, ok := back.Get("n"); !ok {
		t.Error("expected set to reach the back cache")
	}

	_ = c.Delete("n")
	if _, ok := c.Get("n"); ok {
		t.Error("expected delete to reach both layers")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.CacheConfig
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: model.CacheConfig{Enabled: false, Type: "memory"}, wantNil: true},
		{name: "memory", cfg: model.CacheConfig{Enabled: true, Type: "memory", TTL: time.Hour}},
		{name: "default type", cfg: model.CacheConfig{Enabled: true, TTL: time.Hour}},
		{name: "disk", cfg: model.CacheConfig{Enabled: true, Type: "disk", Dir: t.TempDir()}},
		{name: "layered", cfg: model.CacheConfig{Enabled: true, Type: "Layered", Dir: t.TempDir()}},
		{name: "redis", cfg: model.CacheConfig{Enabled: true, Type: "redis", RedisURL: "redis://localhost:6379/0"}},
		{name: "redis without url", cfg: model.CacheConfig{Enabled: true, Type: "redis"}, wantErr: true},
		{name: "redis bad url", cfg: model.CacheConfig{Enabled: true, Type: "redis", RedisURL: "http://nope"}, wantErr: true},
		{name: "unknown", cfg: model.CacheConfig{Enabled: true, Type: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (c == nil) != tt.wantNil {
				t.Errorf("New() = %v, wantNil %v", c, tt.wantNil)
			}
			if rc, ok := c.(*RedisCache); ok {
				_ = rc.Close()
			}
		})
	}
}
