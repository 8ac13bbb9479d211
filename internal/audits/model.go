package audits

import "time"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Impact is the closed three-level taxonomy for red flags.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// RedFlag is one compliance violation or legally risky clause.
type RedFlag struct {
	Issue      string `json:"issue"`
	Law        string `json:"law"`
	Impact     Impact `json:"impact"`
	Correction string `json:"correction"`
}

// PositiveFinding is one clause that meets or exceeds legal requirements.
type PositiveFinding struct {
	Finding string `json:"finding"`
	Law     string `json:"law"`
	Benefit string `json:"benefit"`
}

// Report is the structured compliance report returned by the model after
// validation and repair.
type Report struct {
	Score            int               `json:"score"`
	Summary          string            `json:"summary"`
	RedFlags         []RedFlag         `json:"red_flags"`
	PositiveFindings []PositiveFinding `json:"positive_findings"`
	Disclaimer       string            `json:"disclaimer"`
}

// Record is one durable audit result. Records are append-only: every
// accepted request produces exactly one, success or failure, and none is
// ever updated afterwards.
type Record struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	DocumentName string    `json:"documentName"`
	Status       string    `json:"status"`
	Score        int       `json:"score"`
	Repaired     bool      `json:"repaired"`
	Report       *Report   `json:"report,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
