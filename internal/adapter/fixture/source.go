package fixture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

//go:embed challenges.json
var builtin []byte

var _ secondary.ChallengeSource = (*Source)(nil)

// Source serves a preloaded, ordered set of challenges.
type Source struct {
	challenges []*domain.Challenge
}

// NewSource loads the fixture set from path, or the built-in set when path is empty.
func NewSource(path string) (*Source, error) {
	data := builtin
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture file: %w", err)
		}
		data = b
	}
	return NewSourceFromJSON(data)
}

func NewSourceFromJSON(data []byte) (*Source, error) {
	var challenges []*domain.Challenge
	if err := json.Unmarshal(data, &challenges); err != nil {
		return nil, fmt.Errorf("failed to parse fixture challenges: %w", err)
	}
	for i, c := range challenges {
		if c == nil {
			return nil, fmt.Errorf("fixture challenge at index %d is null", i)
		}
		if c.CreatorName == "" {
			c.CreatorName = domain.ShortAddress(c.Creator)
		}
	}
	return &Source{challenges: challenges}, nil
}

func (s *Source) Mode() domain.SourceMode {
	return domain.SourceModeFixture
}

// GetChallenge returns a copy, so callers may modify it freely.
func (s *Source) GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error) {
	for _, c := range s.challenges {
		if c.ChallengeID == id {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

func (s *Source) ListChallenges(ctx context.Context) ([]*domain.Challenge, error) {
	out := make([]*domain.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		out = append(out, c.Clone())
	}
	return out, nil
}
