package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errUnexpectedValue
		}
		return 7, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error on first call, got %v", err)
	}
	got, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestStore_ExpiresEntriesAfterTTL(t *testing.T) {
	store := NewStore[string](time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "standings:24:1", "png")
	if _, ok := store.Get(context.Background(), "standings:24:1"); !ok {
		t.Fatalf("expected fresh entry to be readable")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "standings:24:1"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted, len=%d", store.Len())
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewStore[string](0)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "asset:logo", "img")
	now = now.Add(240 * time.Hour)
	if _, ok := store.Get(context.Background(), "asset:logo"); !ok {
		t.Fatalf("zero ttl entry should be kept")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore[bool](0)
	ctx := context.Background()
	store.Set(ctx, "welcome:1", true)
	store.Set(ctx, "welcome:2", false)
	store.Set(ctx, "standings:1", true)

	store.DeletePrefix(ctx, "welcome:")

	if store.Len() != 1 {
		t.Fatalf("expected only non-matching entry to remain, len=%d", store.Len())
	}
	if _, ok := store.Get(ctx, "standings:1"); !ok {
		t.Fatalf("non-matching entry was deleted")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
