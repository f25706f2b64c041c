package callback

import (
	"sync"
	"testing"
)

func TestBus(t *testing.T) {
	t.Run("delivers to all subscribers in order", func(t *testing.T) {
		bus := &Bus{}
		var got []string

		bus.Subscribe(func(raw string) { got = append(got, "first:"+raw) })
		bus.Subscribe(func(raw string) { got = append(got, "second:"+raw) })

		bus.Publish("com.app://oauth_callback?access_token=abc")

		if len(got) != 2 {
			t.Fatalf("expected 2 deliveries, got %d", len(got))
		}
		if got[0] != "first:com.app://oauth_callback?access_token=abc" {
			t.Errorf("unexpected first delivery: %s", got[0])
		}
		if got[1] != "second:com.app://oauth_callback?access_token=abc" {
			t.Errorf("unexpected second delivery: %s", got[1])
		}
	})

	t.Run("publish with no subscribers is a no-op", func(t *testing.T) {
		bus := &Bus{}
		bus.Publish("anything://at-all")
	})

	t.Run("every publish reaches every subscriber", func(t *testing.T) {
		bus := &Bus{}
		count := 0
		bus.Subscribe(func(raw string) { count++ })

		for range 5 {
			bus.Publish("https://example.com/deep-link")
		}

		if count != 5 {
			t.Errorf("expected 5 deliveries, got %d", count)
		}
	})

	t.Run("concurrent publishers do not race subscription list", func(t *testing.T) {
		bus := &Bus{}
		var mu sync.Mutex
		count := 0
		bus.Subscribe(func(raw string) {
			mu.Lock()
			count++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				bus.Publish("scheme://url")
			}()
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		if count != 10 {
			t.Errorf("expected 10 deliveries, got %d", count)
		}
	})
}
