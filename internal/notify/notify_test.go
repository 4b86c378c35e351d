package notify

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSet, "set"},
		{KindDelete, "delete"},
		{KindReload, "reload"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var received atomic.Int32
	sub := n.Subscribe(func(Change) {
		received.Add(1)
	})

	n.Set("style.default", nil, "test")
	if received.Load() != 1 {
		t.Fatalf("received = %d, want 1", received.Load())
	}

	sub.Unsubscribe()
	sub.Unsubscribe()

	n.Set("style.default", nil, "test")
	if received.Load() != 1 {
		t.Error("unsubscribed observer received notification")
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	n := New()
	defer n.Close()

	var items, style atomic.Int32
	n.SubscribePath("items", func(Change) { items.Add(1) })
	n.SubscribePath("style", func(Change) { style.Add(1) })

	n.Set("items.abc", 1, "test")
	n.Set("items", 2, "test")
	n.Set("itemsx", 3, "test")
	n.Set("style.default", 4, "test")
	n.Reload("test")

	if got := items.Load(); got != 3 {
		t.Errorf("items observer calls = %d, want 3", got)
	}
	if got := style.Load(); got != 2 {
		t.Errorf("style observer calls = %d, want 2", got)
	}
}

func TestNotifier_ChangeFields(t *testing.T) {
	n := New()
	defer n.Close()

	var got Change
	n.Subscribe(func(c Change) { got = c })

	n.Delete("items.1", "store")

	if got.Path != "items.1" || got.Kind != KindDelete || got.Source != "store" || got.Value != nil {
		t.Errorf("unexpected change %+v", got)
	}
}

func TestNotifier_Async(t *testing.T) {
	n := New(WithAsync(16))

	var mu sync.Mutex
	var paths []string
	n.Subscribe(func(c Change) {
		mu.Lock()
		paths = append(paths, c.Path)
		mu.Unlock()
	})

	for _, p := range []string{"a", "b", "c"} {
		n.Set(p, nil, "test")
	}

	// Close drains the buffer before returning.
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 3 || paths[0] != "a" || paths[2] != "c" {
		t.Errorf("paths = %v, want [a b c]", paths)
	}
}

func TestNotifier_CloseIdempotent(t *testing.T) {
	n := New(WithAsync(1))
	n.Close()
	n.Close()

	done := make(chan struct{})
	go func() {
		n.Set("after", nil, "test")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after Close")
	}
}

func TestBatch(t *testing.T) {
	n := New()
	defer n.Close()

	var count atomic.Int32
	n.Subscribe(func(Change) { count.Add(1) })

	b := n.NewBatch()
	b.Set("a", 1, "test")
	b.Set("b", 2, "test")

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if count.Load() != 0 {
		t.Error("batch delivered before Commit")
	}

	b.Commit()
	if count.Load() != 2 {
		t.Errorf("count = %d, want 2", count.Load())
	}
	if b.Len() != 0 {
		t.Error("batch should be empty after Commit")
	}

	b.Set("c", 3, "test")
	b.Discard()
	b.Commit()
	if count.Load() != 2 {
		t.Error("discarded change was delivered")
	}
}
