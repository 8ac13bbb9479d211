package llm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// gated bounds process-wide concurrency in front of the reasoning service.
// The model invocation is the scarce, rate-limited resource: a burst of
// uploads queues here instead of flooding the provider.
type gated struct {
	base Client
	sem  *semaphore.Weighted
}

// NewGated wraps base with a fixed-size concurrency gate. Acquisition
// respects caller cancellation, so a disconnected request never holds a
// slot.
func NewGated(base Client, maxConcurrent int64) Client {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return gated{
		base: base,
		sem:  semaphore.NewWeighted(maxConcurrent),
	}
}

func (g gated) GenerateAudit(ctx context.Context, prompt Prompt) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer g.sem.Release(1)
	return g.base.GenerateAudit(ctx, prompt)
}
