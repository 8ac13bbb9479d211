package audits

import (
	"context"
	"log"
	"time"

	"audit-backend/internal/llm"
	"audit-backend/internal/shared/metrics"
)

const (
	llmRetryBaseDelay  = 300 * time.Millisecond
	llmRetryMaxRetries = 2
)

type retryingClient struct {
	base      llm.Client
	requestID string
	auditID   string
}

func newRetryingClient(base llm.Client, auditID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingClient{
		base:      base,
		requestID: requestID,
		auditID:   auditID,
	}
}

func (r retryingClient) GenerateAudit(ctx context.Context, prompt llm.Prompt) (string, error) {
	resp, err := r.base.GenerateAudit(ctx, prompt)
	if err == nil || !llm.IsRetryable(err) {
		return resp, err
	}

	delay := llmRetryBaseDelay
	for attempt := 1; attempt <= llmRetryMaxRetries; attempt++ {
		metrics.IncLLMRetry()
		log.Printf("llm retry attempt=%d request_id=%s audit_id=%s error=%s", attempt, r.requestID, r.auditID, sanitizeError(err))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		resp, err = r.base.GenerateAudit(ctx, prompt)
		if err == nil || !llm.IsRetryable(err) {
			return resp, err
		}
		delay *= 2
	}
	return "", err
}
