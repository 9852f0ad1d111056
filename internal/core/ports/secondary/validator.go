package secondary

import (
	"context"
	"time"

	"gitlab.com/codebounty.net/internal/domain"
)

// CodeValidator calls the external validation backend. Transport and decode
// failures wrap errs.ValidatorUnavailable.
type CodeValidator interface {
	Validate(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error)
}

// ValidationStateStore sequences validation requests per session key.
type ValidationStateStore interface {
	// NextSequence returns a strictly increasing number for the key.
	NextSequence(ctx context.Context, key string) (uint64, error)

	// SaveIfLatest stores the outcome only when outcome.Sequence is still the
	// newest sequence issued for the key. Check and write are atomic.
	SaveIfLatest(ctx context.Context, key string, outcome *domain.ValidationOutcome) (bool, error)

	// Latest returns nil, nil when the key has no stored outcome.
	Latest(ctx context.Context, key string) (*domain.ValidationOutcome, error)
}

// ValidationTokenStore remembers which solution commitments passed validation.
type ValidationTokenStore interface {
	PutToken(ctx context.Context, challengeID uint64, token string, ttl time.Duration) error
	HasToken(ctx context.Context, challengeID uint64, token string) (bool, error)
}

// ValidatorForwarder relays a raw request body to the validator and returns its answer untouched.
type ValidatorForwarder interface {
	Forward(ctx context.Context, body []byte) (int, []byte, error)
}
