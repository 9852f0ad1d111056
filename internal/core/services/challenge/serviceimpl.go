package challenge

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ IChallengeService = (*ChallengeService)(nil)

type ChallengeService struct {
	source   secondary.ChallengeSource
	creator  secondary.ChallengeCreator
	sanitize *bluemonday.Policy
	logger   primary.Logger
}

// NewChallengeService wires the source. creator may be nil when no contract is configured.
func NewChallengeService(
	source secondary.ChallengeSource,
	creator secondary.ChallengeCreator,
	logger primary.Logger,
) *ChallengeService {
	return &ChallengeService{
		source:   source,
		creator:  creator,
		sanitize: bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

func (s *ChallengeService) Mode() domain.SourceMode {
	return s.source.Mode()
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error) {
	c, err := s.source.GetChallenge(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load challenge", "challengeId", id, "mode", s.source.Mode(), "error", err)
		return nil, errs.ChallengeNotFound
	}
	if c == nil {
		return nil, errs.ChallengeNotFound
	}
	return c, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	all, err := s.source.ListChallenges(ctx)
	if err != nil {
		s.logger.Error("Failed to list challenges", "mode", s.source.Mode(), "error", err)
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	result := make([]*domain.Challenge, 0, len(all))
	for _, c := range all {
		if filter.Matches(c) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error) {
	if s.creator == nil {
		return nil, errs.ChainUnavailable
	}

	clean := &domain.NewChallenge{
		Title:          s.clean(req.Title),
		Description:    s.clean(req.Description),
		Requirements:   s.clean(req.Requirements),
		Tags:           make([]string, 0, len(req.Tags)),
		BountyAmount:   req.BountyAmount,
		DurationInDays: req.DurationInDays,
	}
	for _, tag := range req.Tags {
		if t := s.clean(tag); t != "" {
			clean.Tags = append(clean.Tags, t)
		}
	}
	if clean.Title == "" || clean.Requirements == "" {
		return nil, errs.InvalidChallenge
	}

	s.logger.Info("Creating challenge", "title", clean.Title, "bounty", clean.BountyAmount.String(), "days", clean.DurationInDays)
	receipt, err := s.creator.CreateChallenge(ctx, clean)
	if err != nil {
		s.logger.Error("Failed to create challenge", "title", clean.Title, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.ChallengeCreateFail, err)
	}

	s.logger.Info("Challenge created", "txHash", receipt.TxHash)
	return receipt, nil
}

// clean strips markup; the text ends up on-chain and is rendered by other clients.
func (s *ChallengeService) clean(v string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(v))
}
