package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "absent")
		if err != nil || hit {
			t.Errorf("Get() = (hit=%v, err=%v), want miss", hit, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, hit, err := c.Get(ctx, "k")
		if err != nil || !hit {
			t.Fatalf("Get() = (hit=%v, err=%v), want hit", hit, err)
		}
		if string(data) != "payload" {
			t.Errorf("Get() = %q, want %q", data, "payload")
		}
	})

	t.Run("expiry", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry still returned")
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("x"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted entry still returned")
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("Delete of missing key = %v, want nil", err)
		}
	})
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("x"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache returned a hit")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ok1 := k.OptimizeKey("hash1", OptimizeKeyOpts{MaxNewNodes: 1000, MinSaving: 1})
	ok2 := k.OptimizeKey("hash1", OptimizeKeyOpts{MaxNewNodes: 500, MinSaving: 1})
	if ok1 == ok2 {
		t.Error("different options produced the same optimize key")
	}
	if ok1 != k.OptimizeKey("hash1", OptimizeKeyOpts{MaxNewNodes: 1000, MinSaving: 1}) {
		t.Error("keyer is not deterministic")
	}
	if !strings.HasPrefix(ok1, "optimize:") {
		t.Errorf("optimize key %q missing prefix", ok1)
	}

	rk := k.RenderKey("hash1", RenderKeyOpts{Format: "svg"})
	if rk == k.RenderKey("hash1", RenderKeyOpts{Format: "dot"}) {
		t.Error("different formats produced the same render key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:42:")
	key := scoped.OptimizeKey("hash1", OptimizeKeyOpts{})
	if !strings.HasPrefix(key, "tenant:42:optimize:") {
		t.Errorf("scoped key %q missing prefix", key)
	}

	plain := NewDefaultKeyer().OptimizeKey("hash1", OptimizeKeyOpts{})
	if key != "tenant:42:"+plain {
		t.Error("scoped key does not wrap the inner keyer")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("network"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h))
	}
	if h != Hash([]byte("network")) {
		t.Error("Hash is not deterministic")
	}
	if h == Hash([]byte("other")) {
		t.Error("distinct inputs hashed equal")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("non-retryable fails fast", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return errors.New("permanent")
		})
		if err == nil || calls != 1 {
			t.Errorf("calls = %d, err = %v; want 1 call and an error", calls, err)
		}
	})

	t.Run("retryable succeeds eventually", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 2 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("calls = %d, err = %v; want 2 calls and nil", calls, err)
		}
	})
}
