package challenge

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

// IChallengeService is the read and create surface over the configured challenge source.
type IChallengeService interface {
	Mode() domain.SourceMode

	// GetChallenge returns errs.ChallengeNotFound for unknown ids and for any provider failure.
	GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error)

	ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error)

	// CreateChallenge funds a new challenge on-chain and waits for it to be mined.
	CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error)
}
