package cache

import (
	"context"
	stderrors "errors"
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
	if data, hit, err := c.Get(ctx, "key"); err != nil || hit || data != nil {
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
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missed")
	}
	now = now.Add(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry hit")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	dot := "digraph G { a -> b }"
	if ArtifactKey("svg", dot) == ArtifactKey("png", dot) {
		t.Error("format must be part of the key")
	}
	if ArtifactKey("svg", dot) == ArtifactKey("svg", dot+" ") {
		t.Error("source must be part of the key")
	}
	if ArtifactKey("svg", dot) != ArtifactKey("svg", dot) {
		t.Error("ArtifactKey should be deterministic")
	}
}

func TestMemo(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	data, hit, err := Memo(ctx, c, "k", DefaultTTL, fn)
	if err != nil || hit || string(data) != "rendered" {
		t.Fatalf("first Memo = %q, %v, %v", data, hit, err)
	}
	data, hit, err = Memo(ctx, c, "k", DefaultTTL, fn)
	if err != nil || !hit || string(data) != "rendered" {
		t.Fatalf("second Memo = %q, %v, %v", data, hit, err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := stderrors.New("boom")
	if _, _, err := Memo(ctx, c, "other", 0, func() ([]byte, error) { return nil, boom }); !stderrors.Is(err, boom) {
		t.Errorf("Memo error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("failed computation must not be cached")
	}
}
