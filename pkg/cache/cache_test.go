package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss on unknown key
	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	// Set then Get
	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "value" {
		t.Errorf("Get(k) = %q ok=%v err=%v", data, ok, err)
	}

	// Delete
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete still hits")
	}

	// Deleting a missing key is a no-op
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired entry still returned")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("NullCache Get = ok=%v err=%v, want miss", ok, err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	r1 := k.RiskKey("tree1", RiskKeyOpts{CatalogHash: "c1"})
	r2 := k.RiskKey("tree1", RiskKeyOpts{CatalogHash: "c2"})
	if r1 == r2 {
		t.Error("different catalogs should produce different risk keys")
	}
	if r1 != k.RiskKey("tree1", RiskKeyOpts{CatalogHash: "c1"}) {
		t.Error("RiskKey not deterministic")
	}

	l1 := k.LayoutKey("tree1", LayoutKeyOpts{GenerationSpacing: 4, SiblingSpacing: 3, BranchSpacing: 2})
	l2 := k.LayoutKey("tree1", LayoutKeyOpts{GenerationSpacing: 5, SiblingSpacing: 3, BranchSpacing: 2})
	if l1 == l2 {
		t.Error("different spacing should produce different layout keys")
	}
	if l1 == r1 {
		t.Error("risk and layout keys share a namespace")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "session:abc:")

	opts := RiskKeyOpts{CatalogHash: "c"}
	want := "session:abc:" + base.RiskKey("t", opts)
	if got := scoped.RiskKey("t", opts); got != want {
		t.Errorf("scoped RiskKey = %q, want %q", got, want)
	}

	// Nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if got := fallback.LayoutKey("t", LayoutKeyOpts{}); got != "p:"+base.LayoutKey("t", LayoutKeyOpts{}) {
		t.Errorf("fallback LayoutKey = %q", got)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("Hash not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("distinct inputs collided")
	}
}
