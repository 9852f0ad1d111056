package submission

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type ISubmissionService interface {
	// Submit commits keccak256(code) on-chain. The token must be the code's
	// commitment and must have passed validation for this challenge.
	// The transaction is signed by the service wallet, which the contract then
	// records as the submitter and, on acceptance, as the winner.
	Submit(ctx context.Context, challengeID uint64, code, validationToken string) (*domain.SubmissionReceipt, error)
}
