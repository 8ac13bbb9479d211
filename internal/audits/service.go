package audits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"audit-backend/internal/extract"
	"audit-backend/internal/legalcontext"
	"audit-backend/internal/llm"
	"audit-backend/internal/shared/metrics"
	"audit-backend/internal/shared/telemetry"
)

// Service runs the audit pipeline: extract, ground, invoke, validate,
// persist. Every accepted submission ends with exactly one persisted
// record, completed or failed.
type Service struct {
	Repo    Repo
	Context *legalcontext.Provider
	LLM     llm.Client
}

// Run audits one uploaded document for a user. The returned record is the
// persisted one; a non-nil error of the ErrAuditFailed family means the
// pipeline failed but the failure itself was recorded.
func (s *Service) Run(ctx context.Context, userID, fileName, mimeType string, data []byte) (Record, error) {
	if userID == "" || fileName == "" {
		return Record{}, errors.New("userID and fileName are required")
	}
	if s.LLM == nil {
		return Record{}, errors.New("missing llm client")
	}

	ext, err := extract.Extract(extract.Document{
		FileName: fileName,
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		return Record{}, err
	}

	startedAt := time.Now().UTC()
	metrics.IncAuditStarted()
	auditID := uuid.NewString()
	requestID := requestIDFromContext(ctx)
	telemetry.Info("audit.status", map[string]any{
		"request_id":    requestID,
		"user_id":       userID,
		"audit_id":      auditID,
		"document_name": fileName,
		"format":        string(ext.Format),
		"status":        "started",
	})

	legalContext := s.Context.Fetch(ctx)
	prompt := llm.ComposePrompt(legalContext, ext)

	client := newRetryingClient(s.LLM, auditID, requestID)
	raw, err := client.GenerateAudit(ctx, prompt)
	if err != nil {
		return s.failAudit(ctx, auditID, userID, fileName, classifyInvocation(err), sanitizeError(err), nil, startedAt)
	}

	report, outcome := ValidateReport(raw)
	if !outcome.Valid {
		var partial *Report
		if hasPartialReport(report) {
			partial = &report
		}
		return s.failAudit(ctx, auditID, userID, fileName, ErrorCodeInvalidResponse, sanitizeError(errors.New(outcome.Reason)), partial, startedAt)
	}

	record := Record{
		ID:           auditID,
		UserID:       userID,
		DocumentName: fileName,
		Status:       StatusCompleted,
		Score:        report.Score,
		Repaired:     outcome.Repaired,
		Report:       &report,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.IncAuditCompleted()
	if record.Repaired {
		metrics.IncAuditRepaired()
	}
	metrics.ObserveAuditDurationMs(float64(time.Since(startedAt).Milliseconds()))
	telemetry.Info("audit.status", map[string]any{
		"request_id":    requestID,
		"user_id":       userID,
		"audit_id":      auditID,
		"document_name": fileName,
		"status":        StatusCompleted,
		"score":         record.Score,
		"repaired":      record.Repaired,
		"duration_ms":   time.Since(startedAt).Milliseconds(),
	})
	return record, nil
}

// GetByID returns one record scoped to its owner.
func (s *Service) GetByID(ctx context.Context, userID, recordID string) (Record, error) {
	if userID == "" || recordID == "" {
		return Record{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, recordID)
}

// ListByUser returns a user's records, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if userID == "" {
		return []Record{}, nil
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// failAudit persists a failed record so the attempt stays traceable, then
// returns it with ErrAuditFailed.
func (s *Service) failAudit(ctx context.Context, auditID, userID, fileName, code, message string, partial *Report, startedAt time.Time) (Record, error) {
	record := Record{
		ID:           auditID,
		UserID:       userID,
		DocumentName: fileName,
		Status:       StatusFailed,
		Report:       partial,
		ErrorCode:    code,
		ErrorMessage: message,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.IncAuditFailed()
	metrics.ObserveAuditDurationMs(float64(time.Since(startedAt).Milliseconds()))
	telemetry.Error("audit.status", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"user_id":       userID,
		"audit_id":      auditID,
		"document_name": fileName,
		"status":        StatusFailed,
		"error_code":    code,
		"error_message": message,
	})
	return record, fmt.Errorf("%w: %s", ErrAuditFailed, code)
}

func classifyInvocation(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeModelTimeout
	case errors.Is(err, llm.ErrRateLimited):
		return ErrorCodeModelRateLimited
	case errors.Is(err, llm.ErrUnavailable):
		return ErrorCodeModelUnavailable
	default:
		return ErrorCodeInternal
	}
}

func hasPartialReport(report Report) bool {
	return report.Summary != "" || report.Disclaimer != "" ||
		report.Score != 0 || len(report.RedFlags) > 0 || len(report.PositiveFindings) > 0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
