package audits

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Outcome classifies a validated model response. Repaired distinguishes
// pristine reports from coerced ones and is surfaced to the caller, not
// hidden in logs.
type Outcome struct {
	Valid    bool
	Repaired bool
	Reason   string
}

// reportWire tolerates the numeric drift models produce: score arrives as
// an arbitrary JSON number and impact as an arbitrary string.
type reportWire struct {
	Score            *float64 `json:"score"`
	Summary          string   `json:"summary"`
	RedFlags         []struct {
		Issue      string `json:"issue"`
		Law        string `json:"law"`
		Impact     string `json:"impact"`
		Correction string `json:"correction"`
	} `json:"red_flags"`
	PositiveFindings []PositiveFinding `json:"positive_findings"`
	Disclaimer       string            `json:"disclaimer"`
}

// ValidateReport strips code-fence artifacts, parses the raw model text
// and repairs recoverable schema deviations. The policy is lenient: clamp
// and coerce with a recorded repair flag rather than discard an otherwise
// useful audit. Only structurally unrecoverable responses come back
// Invalid. When parsing succeeded but validation did not, the partially
// decoded report is still returned for best-effort persistence.
func ValidateReport(raw string) (Report, Outcome) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return Report{}, Outcome{Valid: false, Reason: "empty response"}
	}

	var wire reportWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return Report{}, Outcome{Valid: false, Reason: fmt.Sprintf("parse: %v", err)}
	}

	report := Report{
		Summary:    strings.TrimSpace(wire.Summary),
		Disclaimer: wire.Disclaimer,
	}
	repaired := false

	if wire.Score == nil {
		return report, Outcome{Valid: false, Reason: "missing score"}
	}
	score := *wire.Score
	if score != math.Trunc(score) {
		repaired = true
	}
	clamped, didClamp := clampScore(score)
	if didClamp {
		repaired = true
	}
	report.Score = int(math.Round(clamped))

	report.RedFlags = make([]RedFlag, 0, len(wire.RedFlags))
	for _, rf := range wire.RedFlags {
		impact, coerced := canonicalImpact(rf.Impact)
		if coerced {
			repaired = true
		}
		report.RedFlags = append(report.RedFlags, RedFlag{
			Issue:      rf.Issue,
			Law:        rf.Law,
			Impact:     impact,
			Correction: rf.Correction,
		})
	}

	report.PositiveFindings = wire.PositiveFindings
	if report.PositiveFindings == nil {
		report.PositiveFindings = []PositiveFinding{}
	}

	if report.Summary == "" {
		return report, Outcome{Valid: false, Repaired: repaired, Reason: "missing summary"}
	}

	return report, Outcome{Valid: true, Repaired: repaired}
}

// clampScore bounds the raw JSON number before integer conversion;
// converting an out-of-range float64 to int is implementation-dependent
// and would clamp huge scores in the wrong direction.
func clampScore(score float64) (float64, bool) {
	if score < 0 {
		return 0, true
	}
	if score > 100 {
		return 100, true
	}
	return score, false
}

// canonicalImpact maps a model-supplied impact onto the closed enum,
// coercing anything unrecognized to Medium.
func canonicalImpact(raw string) (Impact, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return ImpactHigh, raw != string(ImpactHigh)
	case "medium":
		return ImpactMedium, raw != string(ImpactMedium)
	case "low":
		return ImpactLow, raw != string(ImpactLow)
	default:
		return ImpactMedium, true
	}
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}
