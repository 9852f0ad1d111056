package secondary

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

// ChallengeSource yields normalized challenges. GetChallenge returns nil, nil when the id is unknown.
type ChallengeSource interface {
	Mode() domain.SourceMode
	GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error)
	ListChallenges(ctx context.Context) ([]*domain.Challenge, error)
}

// RemainingTimeReader asks the contract how many seconds a challenge has left.
type RemainingTimeReader interface {
	RemainingTime(ctx context.Context, id uint64) (int64, error)
}
