package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/core/services/challenge"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/metrics"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ IValidationService = (*ValidationService)(nil)

const anonymousSession = "anonymous"

type ValidationService struct {
	challenges challenge.IChallengeService
	validator  secondary.CodeValidator
	forwarder  secondary.ValidatorForwarder
	states     secondary.ValidationStateStore
	tokens     secondary.ValidationTokenStore
	tokenTTL   time.Duration
	metrics    *metrics.Metrics
	logger     primary.Logger
}

func NewValidationService(
	challenges challenge.IChallengeService,
	validator secondary.CodeValidator,
	forwarder secondary.ValidatorForwarder,
	states secondary.ValidationStateStore,
	tokens secondary.ValidationTokenStore,
	tokenTTL time.Duration,
	m *metrics.Metrics,
	logger primary.Logger,
) *ValidationService {
	return &ValidationService{
		challenges: challenges,
		validator:  validator,
		forwarder:  forwarder,
		states:     states,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		metrics:    m,
		logger:     logger,
	}
}

// SessionKey scopes sequencing to one user working on one challenge.
func SessionKey(sessionID string, challengeID uint64) string {
	if sessionID == "" {
		sessionID = anonymousSession
	}
	return fmt.Sprintf("%s:%d", sessionID, challengeID)
}

func (s *ValidationService) Validate(ctx context.Context, challengeID uint64, sessionID, code string) (*domain.ValidationOutcome, error) {
	c, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	key := SessionKey(sessionID, challengeID)
	seq, err := s.states.NextSequence(ctx, key)
	if err != nil {
		s.logger.Error("Failed to allocate validation sequence", "key", key, "error", err)
		return nil, fmt.Errorf("failed to start validation: %w", err)
	}

	pending := &domain.ValidationOutcome{ChallengeID: challengeID, Sequence: seq, State: domain.ValidationValidating}
	if _, err := s.states.SaveIfLatest(ctx, key, pending); err != nil {
		s.logger.Warn("Failed to record validating state", "key", key, "error", err)
	}

	outcome := s.run(ctx, c, seq, code)

	applied, err := s.states.SaveIfLatest(ctx, key, outcome)
	if err != nil {
		s.logger.Error("Failed to store validation outcome", "key", key, "sequence", seq, "error", err)
		return nil, fmt.Errorf("failed to store validation outcome: %w", err)
	}
	outcome.Superseded = !applied
	s.metrics.ObserveValidation(string(outcome.State))

	s.logger.Info("Validation finished", "challengeId", challengeID, "session", key, "sequence", seq,
		"state", outcome.State, "superseded", outcome.Superseded)
	return outcome, nil
}

func (s *ValidationService) run(ctx context.Context, c *domain.Challenge, seq uint64, code string) *domain.ValidationOutcome {
	outcome := &domain.ValidationOutcome{ChallengeID: c.ChallengeID, Sequence: seq}

	result, err := s.validator.Validate(ctx, &domain.ValidationRequest{
		ProblemStatement: domain.ProblemText(c),
		Code:             code,
	})
	if err != nil {
		if !errors.Is(err, errs.ValidatorUnavailable) {
			s.logger.Error("Unexpected validator error", "challengeId", c.ChallengeID, "error", err)
		}
		outcome.State = domain.ValidationUnavailable
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Result = result
	if !result.Status {
		outcome.State = domain.ValidationInvalid
		return outcome
	}

	outcome.State = domain.ValidationValid
	token := domain.NewCommitment(code).Hex()
	// Tokens bind to the code hash, so a superseded but valid result still proves that code passed.
	if err := s.tokens.PutToken(ctx, c.ChallengeID, token, s.tokenTTL); err != nil {
		s.logger.Error("Failed to store validation token", "challengeId", c.ChallengeID, "error", err)
		return outcome
	}
	outcome.ValidationToken = token
	return outcome
}

func (s *ValidationService) Latest(ctx context.Context, challengeID uint64, sessionID string) (*domain.ValidationOutcome, error) {
	outcome, err := s.states.Latest(ctx, SessionKey(sessionID, challengeID))
	if err != nil {
		return nil, fmt.Errorf("failed to load validation outcome: %w", err)
	}
	if outcome == nil {
		return &domain.ValidationOutcome{ChallengeID: challengeID, State: domain.ValidationIdle}, nil
	}
	return outcome, nil
}

func (s *ValidationService) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	status, resp, err := s.forwarder.Forward(ctx, body)
	if err != nil {
		s.logger.Error("Validator passthrough failed", "error", err)
		return 0, nil, fmt.Errorf("%w: %v", errs.ValidatorUnavailable, err)
	}
	return status, resp, nil
}
