package challenges

import (
	"github.com/shopspring/decimal"

	"gitlab.com/codebounty.net/internal/core/services/countdown"
	"gitlab.com/codebounty.net/internal/domain"
)

type ListResponse struct {
	Success    bool                `json:"success"`
	Mode       domain.SourceMode   `json:"mode"`
	Challenges []*domain.Challenge `json:"challenges"`
}

type ChallengeResponse struct {
	Success   bool              `json:"success"`
	Challenge *domain.Challenge `json:"challenge"`
}

type CountdownResponse struct {
	Success     bool           `json:"success"`
	ChallengeID uint64         `json:"challengeId"`
	Countdown   countdown.Tick `json:"countdown"`
}

type ValidateRequest struct {
	Code string `json:"code" validate:"required"`
	OCId string `json:"OCId"`
}

type ValidationResponse struct {
	Success bool `json:"success"`
	*domain.ValidationOutcome
	Error string `json:"error,omitempty"`
}

type SubmitRequest struct {
	Code            string `json:"code" validate:"required"`
	ValidationToken string `json:"validationToken"`
}

type SubmitResponse struct {
	Success bool `json:"success"`
	*domain.SubmissionReceipt
}

// CreateChallengeRequest mirrors the create-competition form.
type CreateChallengeRequest struct {
	Title          string          `json:"title" validate:"required,max=200"`
	Description    string          `json:"description" validate:"max=5000"`
	Requirements   string          `json:"requirements" validate:"required,max=5000"`
	Tags           []string        `json:"tags" validate:"max=10,dive,max=32"`
	BountyAmount   decimal.Decimal `json:"bountyAmount"`
	DurationInDays uint64          `json:"durationInDays" validate:"required,min=1,max=365"`
}

type CreateChallengeResponse struct {
	Success bool `json:"success"`
	*domain.TxReceipt
}
