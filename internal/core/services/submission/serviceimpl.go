package submission

import (
	"context"
	"fmt"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/core/services/challenge"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/metrics"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ ISubmissionService = (*SubmissionService)(nil)

type SubmissionService struct {
	challenges challenge.IChallengeService
	tokens     secondary.ValidationTokenStore
	submitter  secondary.SolutionSubmitter
	metrics    *metrics.Metrics
	logger     primary.Logger
}

// NewSubmissionService wires the service. submitter may be nil when no contract is configured.
func NewSubmissionService(
	challenges challenge.IChallengeService,
	tokens secondary.ValidationTokenStore,
	submitter secondary.SolutionSubmitter,
	m *metrics.Metrics,
	logger primary.Logger,
) *SubmissionService {
	return &SubmissionService{
		challenges: challenges,
		tokens:     tokens,
		submitter:  submitter,
		metrics:    m,
		logger:     logger,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, challengeID uint64, code, validationToken string) (*domain.SubmissionReceipt, error) {
	commitment := domain.NewCommitment(code)
	if validationToken == "" || !commitment.Matches(validationToken) {
		return nil, errs.ValidationRequired
	}

	accepted, err := s.tokens.HasToken(ctx, challengeID, validationToken)
	if err != nil {
		s.logger.Error("Failed to check validation token", "challengeId", challengeID, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.SubmissionFailed, err)
	}
	if !accepted {
		return nil, errs.ValidationRequired
	}

	if _, err := s.challenges.GetChallenge(ctx, challengeID); err != nil {
		return nil, err
	}

	if s.submitter == nil {
		s.metrics.ObserveSubmission(false)
		return nil, fmt.Errorf("%w: %w", errs.SubmissionFailed, errs.WalletUnavailable)
	}

	s.logger.Info("Submitting solution", "challengeId", challengeID, "solutionHash", commitment.Hex())
	receipt, err := s.submitter.SubmitSolution(ctx, challengeID, commitment)
	if err != nil {
		s.metrics.ObserveSubmission(false)
		s.logger.Error("Failed to submit solution", "challengeId", challengeID, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.SubmissionFailed, err)
	}

	s.metrics.ObserveSubmission(true)
	s.logger.Info("Solution submitted", "challengeId", challengeID, "txHash", receipt.TxHash)
	return &domain.SubmissionReceipt{
		ChallengeID:  challengeID,
		SolutionHash: commitment.Hex(),
		TxReceipt:    *receipt,
	}, nil
}
