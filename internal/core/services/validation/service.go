package validation

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type IValidationService interface {
	// Validate checks code against the challenge's problem text. A validator
	// outage is reported as the unavailable state, not as an error.
	Validate(ctx context.Context, challengeID uint64, sessionID, code string) (*domain.ValidationOutcome, error)

	// Latest returns the session's newest applied outcome, or an idle outcome.
	Latest(ctx context.Context, challengeID uint64, sessionID string) (*domain.ValidationOutcome, error)

	// Forward relays a raw validator request body.
	Forward(ctx context.Context, body []byte) (int, []byte, error)
}
