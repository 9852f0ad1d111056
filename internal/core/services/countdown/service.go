package countdown

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

// Tick is one countdown reading.
type Tick struct {
	Remaining int64  `json:"remaining"`
	Text      string `json:"text"`
	Ended     bool   `json:"ended"`
}

type ICountdownEngine interface {
	Remaining(ctx context.Context, c *domain.Challenge) (int64, error)
	Current(ctx context.Context, c *domain.Challenge) (Tick, error)

	// Watch emits a tick immediately and then once per period until ctx is done.
	// It returns nil when the countdown finished on its own.
	Watch(ctx context.Context, c *domain.Challenge, emit func(Tick)) error
}
