package chain

import (
	"context"

	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

var _ secondary.ChallengeSource = (*Source)(nil)

// Source serves challenges straight from the contract. Nothing is cached.
type Source struct {
	reader secondary.ChallengeReader
}

func NewSource(reader secondary.ChallengeReader) *Source {
	return &Source{reader: reader}
}

func (s *Source) Mode() domain.SourceMode {
	return domain.SourceModeChain
}

func (s *Source) GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error) {
	raw, err := s.reader.Challenge(ctx, id)
	if err != nil {
		return nil, err
	}
	// Unset storage slots come back zeroed.
	if raw == nil || raw.ChallengeID == 0 {
		return nil, nil
	}
	return Normalize(raw), nil
}

func (s *Source) ListChallenges(ctx context.Context) ([]*domain.Challenge, error) {
	raws, err := s.reader.ActiveChallenges(ctx)
	if err != nil {
		return nil, err
	}
	challenges := make([]*domain.Challenge, 0, len(raws))
	for _, raw := range raws {
		if raw.ChallengeID == 0 {
			continue
		}
		challenges = append(challenges, Normalize(raw))
	}
	return challenges, nil
}

func (s *Source) RemainingTime(ctx context.Context, id uint64) (int64, error) {
	return s.reader.RemainingTime(ctx, id)
}
