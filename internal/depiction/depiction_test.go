package depiction

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ml-muebles/storefront/internal/woocommerce"
)

type fakeFetcher struct {
	calls    int32
	release  chan struct{}
	products map[int64]*woocommerce.Product
	err      error
}

func (f *fakeFetcher) GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, woocommerce.ErrProductNotFound
	}
	return p, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func TestConcurrentFetchesCollapse(t *testing.T) {
	fetcher := &fakeFetcher{
		release: make(chan struct{}),
		products: map[int64]*woocommerce.Product{
			401: {ID: 401, Name: "Seccional - Gris", Images: []woocommerce.Image{{Src: "https://cdn/gris.jpg"}}},
		},
	}
	svc, err := NewService(fetcher, nil, Options{})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan Depiction, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.Fetch(context.Background(), 401)
			if err != nil {
				t.Errorf("fetch failed: %v", err)
				return
			}
			results <- d
		}()
	}
	// let the goroutines pile up on the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()
	close(results)

	for d := range results {
		if d.Image != "https://cdn/gris.jpg" {
			t.Fatalf("unexpected depiction: %+v", d)
		}
	}
	if calls := atomic.LoadInt32(&fetcher.calls); calls != 1 {
		t.Fatalf("expected one backend call, got %d", calls)
	}

	if _, err := svc.Fetch(context.Background(), 401); err != nil {
		t.Fatalf("memoized fetch failed: %v", err)
	}
	if calls := atomic.LoadInt32(&fetcher.calls); calls != 1 {
		t.Fatalf("memoized fetch must not hit backend, got %d", calls)
	}
}

func TestCancelledCallerDoesNotFailWaiters(t *testing.T) {
	fetcher := &fakeFetcher{
		release: make(chan struct{}),
		products: map[int64]*woocommerce.Product{
			401: {ID: 401, Images: []woocommerce.Image{{Src: "https://cdn/gris.jpg"}}},
		},
	}
	svc, err := NewService(fetcher, nil, Options{FetchTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = svc.Fetch(firstCtx, 401)
	}()
	for atomic.LoadInt32(&fetcher.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	type outcome struct {
		d   Depiction
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		d, err := svc.Fetch(context.Background(), 401)
		second <- outcome{d, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	time.Sleep(20 * time.Millisecond)
	close(fetcher.release)

	got := <-second
	<-firstDone
	if got.err != nil || got.d.Image != "https://cdn/gris.jpg" {
		t.Fatalf("waiter should get the shared result, got %+v err=%v", got.d, got.err)
	}
}

func TestFallbackToParentImage(t *testing.T) {
	fetcher := &fakeFetcher{products: map[int64]*woocommerce.Product{
		402: {ID: 402, Parent: 40},
		40:  {ID: 40, Images: []woocommerce.Image{{Src: "https://cdn/default.jpg"}}},
	}}
	svc, _ := NewService(fetcher, nil, Options{})
	d, err := svc.Fetch(context.Background(), 402)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !d.Fallback || d.Image != "https://cdn/default.jpg" {
		t.Fatalf("expected parent image fallback, got %+v", d)
	}
}

func TestSharedCacheIsUsed(t *testing.T) {
	cache := &mapCache{data: map[string][]byte{}}
	fetcher := &fakeFetcher{products: map[int64]*woocommerce.Product{
		7: {ID: 7, Images: []woocommerce.Image{{Src: "https://cdn/7.jpg"}}},
	}}
	first, _ := NewService(fetcher, cache, Options{TTL: time.Minute})
	if _, err := first.Fetch(context.Background(), 7); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	second, _ := NewService(fetcher, cache, Options{TTL: time.Minute})
	d, err := second.Fetch(context.Background(), 7)
	if err != nil || d.Image != "https://cdn/7.jpg" {
		t.Fatalf("unexpected cached depiction: %+v err=%v", d, err)
	}
	if calls := atomic.LoadInt32(&fetcher.calls); calls != 1 {
		t.Fatalf("second service must read the shared cache, got %d calls", calls)
	}
}

func TestErrorsAreNotMemoized(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc, _ := NewService(fetcher, nil, Options{})
	if _, err := svc.Fetch(context.Background(), 9); err == nil {
		t.Fatalf("expected error")
	}
	fetcher.err = nil
	fetcher.products = map[int64]*woocommerce.Product{9: {ID: 9}}
	if _, err := svc.Fetch(context.Background(), 9); err != nil {
		t.Fatalf("retry after error must hit backend again: %v", err)
	}
	if _, err := svc.Fetch(context.Background(), 0); !errors.Is(err, ErrInvalidVariation) {
		t.Fatalf("expected ErrInvalidVariation, got %v", err)
	}
}
