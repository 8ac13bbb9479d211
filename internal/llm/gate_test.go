package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

type blockingClient struct {
	mu      sync.Mutex
	active  int32
	maxSeen int32
	release chan struct{}
}

func (c *blockingClient) GenerateAudit(ctx context.Context, prompt Prompt) (string, error) {
	current := atomic.AddInt32(&c.active, 1)
	c.mu.Lock()
	if current > c.maxSeen {
		c.maxSeen = current
	}
	c.mu.Unlock()
	<-c.release
	atomic.AddInt32(&c.active, -1)
	return "{}", nil
}

func TestGatedLimitsConcurrency(t *testing.T) {
	base := &blockingClient{release: make(chan struct{})}
	client := NewGated(base, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.GenerateAudit(context.Background(), Prompt{})
		}()
	}

	// Let goroutines pile up on the gate, then drain.
	for i := 0; i < 6; i++ {
		base.release <- struct{}{}
	}
	wg.Wait()

	base.mu.Lock()
	maxSeen := base.maxSeen
	base.mu.Unlock()
	if maxSeen > 2 {
		t.Fatalf("expected at most 2 concurrent invocations, saw %d", maxSeen)
	}
}

func TestGatedRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := &blockingClient{release: make(chan struct{})}
	client := NewGated(base, 1)

	if _, err := client.GenerateAudit(ctx, Prompt{}); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}
