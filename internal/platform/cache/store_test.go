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
			v, err := store.GetOrLoad(context.Background(), "TDF_FEMMES_2025", loader)
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
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store := NewStore[int](time.Minute)
	now := time.Date(2025, time.July, 26, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(t.Context(), "k", 1)
	if v, ok := store.Get(t.Context(), "k"); !ok || v != 1 {
		t.Fatalf("expected cached value, got %d %v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := store.Get(t.Context(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_RefreshReplacesValueAndKeepsOldOnError(t *testing.T) {
	store := NewStore[int](0)
	store.Set(t.Context(), "k", 1)

	v, err := store.Refresh(t.Context(), "k", func(context.Context) (int, error) { return 2, nil })
	if err != nil || v != 2 {
		t.Fatalf("unexpected refresh result %d %v", v, err)
	}

	if _, err := store.Refresh(t.Context(), "k", func(context.Context) (int, error) {
		return 0, errors.New("provider down")
	}); err == nil {
		t.Fatalf("expected refresh error")
	}
	if v, _ := store.Get(t.Context(), "k"); v != 2 {
		t.Fatalf("failed refresh must keep previous value, got %d", v)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore[string](0)
	store.Set(t.Context(), "race:TDF:riders", "a")
	store.Set(t.Context(), "race:TDF:summary", "b")
	store.Set(t.Context(), "race:GIRO:riders", "c")

	store.DeletePrefix(t.Context(), "race:TDF:")

	if _, ok := store.Get(t.Context(), "race:TDF:riders"); ok {
		t.Fatalf("expected prefix entries to be deleted")
	}
	if _, ok := store.Get(t.Context(), "race:GIRO:riders"); !ok {
		t.Fatalf("expected other entries to remain")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
