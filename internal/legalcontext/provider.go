package legalcontext

import (
	"context"
	"strings"

	"audit-backend/internal/shared/telemetry"
)

// Provider assembles the legal grounding context for audit prompts.
type Provider struct {
	Repo Repo
}

// Fetch concatenates the whole corpus, content fields joined by newlines.
// A fetch failure degrades to an empty context: an audit with no legal
// grounding is still better than no audit. The degradation is logged so
// operators can see it happening.
func (p *Provider) Fetch(ctx context.Context) string {
	if p == nil || p.Repo == nil {
		return ""
	}
	articles, err := p.Repo.ListAll(ctx)
	if err != nil {
		telemetry.Warn("legalcontext.fetch.degraded", map[string]any{
			"error": err.Error(),
		})
		return ""
	}
	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		if content := strings.TrimSpace(a.Content); content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n")
}
