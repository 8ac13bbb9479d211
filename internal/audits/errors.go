package audits

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrAuditFailed signals that the pipeline finished with a failed
	// record; the record itself carries the error code and message.
	ErrAuditFailed = errors.New("audit failed")

	// ErrPersistence signals that no durable record exists and the whole
	// submission must be retried.
	ErrPersistence = errors.New("persistence error")
)

const (
	ErrorCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrorCodeModelTimeout      = "MODEL_TIMEOUT"
	ErrorCodeModelRateLimited  = "MODEL_RATE_LIMITED"
	ErrorCodeModelUnavailable  = "MODEL_UNAVAILABLE"
	ErrorCodeInvalidResponse   = "MODEL_RESPONSE_INVALID"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)
