package domain

import "strings"

// ValidationState is the lifecycle of one validation request.
type ValidationState string

const (
	ValidationIdle       ValidationState = "idle"
	ValidationValidating ValidationState = "validating"
	ValidationValid      ValidationState = "valid"
	ValidationInvalid    ValidationState = "invalid"
	// ValidationUnavailable means the validator could not be reached or answered garbage.
	ValidationUnavailable ValidationState = "unavailable"
)

// ValidationResult is the validator's verdict for one request.
type ValidationResult struct {
	Status         bool   `json:"status"`
	SyntaxCorrect  bool   `json:"syntax_correct"`
	CompilableCode bool   `json:"compilable_code"`
	Error          string `json:"error"`
}

// ValidationOutcome is what a session shows after its latest request.
type ValidationOutcome struct {
	ChallengeID     uint64            `json:"challengeId"`
	Sequence        uint64            `json:"sequence"`
	State           ValidationState   `json:"state"`
	Result          *ValidationResult `json:"result,omitempty"`
	ValidationToken string            `json:"validationToken,omitempty"`
	Detail          string            `json:"detail,omitempty"`
	Superseded      bool              `json:"superseded,omitempty"`
}

// ValidationRequest is the body the external validator expects.
type ValidationRequest struct {
	ProblemStatement string `json:"problem_statement"`
	Code             string `json:"code"`
}

// ProblemText is the one canonical problem string sent for validation: the
// statement and the requirements separated by a blank line, blank parts dropped.
func ProblemText(c *Challenge) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(c.ProblemStatement); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(c.Requirements); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n")
}
