package schedulerengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/metrics"
)

// ExpiryContract is the slice of the bounty contract the resolver needs.
type ExpiryContract interface {
	ActiveChallenges(ctx context.Context) ([]*domain.ChainChallenge, error)
	secondary.RemainingTimeReader
	secondary.ExpiryResolver
}

// ResolverEngine periodically settles challenges whose time ran out while still waiting.
type ResolverEngine struct {
	cfg      *config.ResolverConfig
	contract ExpiryContract
	metrics  *metrics.Metrics
	logger   primary.Logger
}

func NewResolverEngine(
	cfg *config.ResolverConfig,
	contract ExpiryContract,
	m *metrics.Metrics,
	logger primary.Logger,
) *ResolverEngine {
	return &ResolverEngine{
		cfg:      cfg,
		contract: contract,
		metrics:  m,
		logger:   logger,
	}
}

// Start runs a pass every interval until ctx is done. The returned channel closes when the loop exits.
func (s *ResolverEngine) Start(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	ticker := time.NewTicker(s.cfg.Interval)
	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
	s.logger.Info("Resolver engine started", "interval", s.cfg.Interval.String(), "workers", s.cfg.Workers)
	return stopped
}

// RunOnce resolves every expired waiting challenge and returns how many transactions were mined.
func (s *ResolverEngine) RunOnce(ctx context.Context) int {
	active, err := s.contract.ActiveChallenges(ctx)
	if err != nil {
		s.logger.Error("Failed to list active challenges", "error", err)
		return 0
	}

	var expired []uint64
	for _, c := range active {
		if c.ChallengeID == 0 || domain.ChallengeStatus(c.Status) != domain.ChallengeStatusWaiting {
			continue
		}
		remaining, err := s.contract.RemainingTime(ctx, c.ChallengeID)
		if err != nil {
			s.logger.Warn("Failed to read remaining time", "challengeId", c.ChallengeID, "error", err)
			continue
		}
		if remaining <= 0 {
			expired = append(expired, c.ChallengeID)
		}
	}
	if len(expired) == 0 {
		s.logger.Debug("No expired challenges found")
		return 0
	}

	workerSize := s.cfg.Workers
	if workerSize <= 0 {
		workerSize = 1
	}
	if workerSize > len(expired) {
		workerSize = len(expired)
	}

	idCh := make(chan uint64, len(expired))
	for _, id := range expired {
		idCh <- id
	}
	close(idCh)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved int
	)
	wg.Add(workerSize)
	for i := 0; i < workerSize; i++ {
		go func() {
			defer wg.Done()
			for id := range idCh {
				if ctx.Err() != nil {
					return
				}
				receipt, err := s.contract.ResolveExpiredChallenge(ctx, id)
				s.metrics.ObserveResolution(err == nil)
				if err != nil {
					s.logger.Error("Failed to resolve expired challenge", "challengeId", id, "error", err)
					continue
				}
				s.logger.Info("Expired challenge resolved", "challengeId", id, "txHash", receipt.TxHash)
				mu.Lock()
				resolved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.logger.Info("Resolver pass done", "expired", len(expired), "resolved", resolved)
	return resolved
}
