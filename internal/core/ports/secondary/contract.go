package secondary

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

// ChallengeReader is the read side of the bounty contract.
type ChallengeReader interface {
	// Challenge returns the raw record; a zero ChallengeID means no such challenge.
	Challenge(ctx context.Context, id uint64) (*domain.ChainChallenge, error)
	ActiveChallenges(ctx context.Context) ([]*domain.ChainChallenge, error)
	RemainingTimeReader
}

// SolutionSubmitter sends submitSolution and waits for it to be mined.
type SolutionSubmitter interface {
	SubmitSolution(ctx context.Context, id uint64, solutionHash domain.Commitment) (*domain.TxReceipt, error)
}

type ChallengeCreator interface {
	CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error)
}

type ExpiryResolver interface {
	ResolveExpiredChallenge(ctx context.Context, id uint64) (*domain.TxReceipt, error)
}

type CertificateContract interface {
	HasMinted(ctx context.Context, address string) (bool, error)
	MintCertificate(ctx context.Context, address string, metadataIndex uint64) (*domain.TxReceipt, error)
}
