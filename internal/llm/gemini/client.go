package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"audit-backend/internal/llm"
)

const defaultTimeout = 60 * time.Second

// Client implements llm.Client using the Gemini API. Audits request
// schema-constrained JSON output at low temperature to minimize
// structural drift.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// GenerateAudit sends the composed prompt and returns the raw model text.
func (c *Client) GenerateAudit(ctx context.Context, prompt llm.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var parts []*genai.Part
	if prompt.DocumentText != "" {
		parts = append(parts, genai.NewPartFromText(prompt.DocumentText))
	}
	if len(prompt.Attachment) > 0 {
		parts = append(parts, genai.NewPartFromBytes(prompt.Attachment, prompt.AttachmentMIME))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("prompt has neither document text nor attachment")
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		ResponseMIMEType:  "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", classifyError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response from gemini", llm.ErrUnavailable)
	}
	return text, nil
}

// classifyError maps transport failures onto the llm error taxonomy while
// preserving the upstream message. API keys never appear in Gemini error
// payloads, so wrapping the message verbatim is safe.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", llm.ErrTimeout, err.Error())
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", llm.ErrRateLimited, apiErr.Message)
		case apiErr.Code == http.StatusRequestTimeout:
			return fmt.Errorf("%w: %s", llm.ErrTimeout, apiErr.Message)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %s", llm.ErrUnavailable, apiErr.Message)
		}
		return fmt.Errorf("gemini error: %s (%s)", apiErr.Message, apiErr.Status)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %s", llm.ErrRateLimited, err.Error())
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return fmt.Errorf("%w: %s", llm.ErrTimeout, err.Error())
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "eof"):
		return fmt.Errorf("%w: %s", llm.ErrUnavailable, err.Error())
	}
	return err
}

var _ llm.Client = (*Client)(nil)
