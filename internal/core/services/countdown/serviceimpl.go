package countdown

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

var _ ICountdownEngine = (*Engine)(nil)

const EndedText = "Ended"

// Format renders remaining seconds as "{d}d {h}h {m}m remaining", or "Ended" once nothing is left.
func Format(remaining int64) string {
	if remaining <= 0 {
		return EndedText
	}
	days := remaining / 86400
	hours := (remaining % 86400) / 3600
	minutes := (remaining % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm remaining", days, hours, minutes)
}

type remainingFunc func(ctx context.Context, c *domain.Challenge) (int64, error)

type Engine struct {
	period    time.Duration
	remaining remainingFunc
	// stopOnEnd ends Watch after the first "Ended" tick.
	stopOnEnd bool
	logger    primary.Logger
}

// NewFixtureEngine computes time left locally from start time and duration.
func NewFixtureEngine(period time.Duration, now func() time.Time, logger primary.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		period: period,
		remaining: func(ctx context.Context, c *domain.Challenge) (int64, error) {
			return c.EndTime() - now().Unix(), nil
		},
		stopOnEnd: true,
		logger:    logger,
	}
}

// NewChainEngine asks the contract on every tick and keeps polling after the end.
func NewChainEngine(period time.Duration, reader secondary.RemainingTimeReader, logger primary.Logger) *Engine {
	return &Engine{
		period: period,
		remaining: func(ctx context.Context, c *domain.Challenge) (int64, error) {
			return reader.RemainingTime(ctx, c.ChallengeID)
		},
		logger: logger,
	}
}

// NewEngine picks the variant for the source mode.
func NewEngine(mode domain.SourceMode, period time.Duration, reader secondary.RemainingTimeReader, logger primary.Logger) *Engine {
	if mode == domain.SourceModeChain && reader != nil {
		return NewChainEngine(period, reader, logger)
	}
	return NewFixtureEngine(period, time.Now, logger)
}

func (e *Engine) Remaining(ctx context.Context, c *domain.Challenge) (int64, error) {
	r, err := e.remaining(ctx, c)
	if err != nil {
		return 0, err
	}
	if r < 0 {
		r = 0
	}
	return r, nil
}

func (e *Engine) Current(ctx context.Context, c *domain.Challenge) (Tick, error) {
	r, err := e.Remaining(ctx, c)
	if err != nil {
		return Tick{}, err
	}
	return Tick{Remaining: r, Text: Format(r), Ended: r <= 0}, nil
}

// Watch runs every tick on the calling goroutine, so readings are emitted in order.
func (e *Engine) Watch(ctx context.Context, c *domain.Challenge, emit func(Tick)) error {
	if e.emit(ctx, c, emit) && e.stopOnEnd {
		return nil
	}

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if e.emit(ctx, c, emit) && e.stopOnEnd {
				return nil
			}
		}
	}
}

// emit reports whether the emitted tick was the end. Failed reads skip the tick.
func (e *Engine) emit(ctx context.Context, c *domain.Challenge, emit func(Tick)) bool {
	tick, err := e.Current(ctx, c)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.Warn("Failed to read remaining time", "challengeId", c.ChallengeID, "error", err)
		}
		return false
	}
	emit(tick)
	return tick.Ended
}
