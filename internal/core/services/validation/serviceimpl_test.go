package validation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/adapter/logging"
	memstore "gitlab.com/codebounty.net/internal/adapter/memory/validationport"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

type stubChallenges struct {
	challenges map[uint64]*domain.Challenge
}

func (s *stubChallenges) Mode() domain.SourceMode { return domain.SourceModeFixture }

func (s *stubChallenges) GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error) {
	if c, ok := s.challenges[id]; ok {
		return c, nil
	}
	return nil, errs.ChallengeNotFound
}

func (s *stubChallenges) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	return nil, nil
}

func (s *stubChallenges) CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error) {
	return nil, errs.ChainUnavailable
}

type mockValidator struct {
	ValidateFunc func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error)
	ForwardFunc  func(ctx context.Context, body []byte) (int, []byte, error)
}

func (m *mockValidator) Validate(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
	return m.ValidateFunc(ctx, req)
}

func (m *mockValidator) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	return m.ForwardFunc(ctx, body)
}

func newService(v *mockValidator, store *memstore.Store) *ValidationService {
	challenges := &stubChallenges{challenges: map[uint64]*domain.Challenge{
		1: {ChallengeID: 1, ProblemStatement: "Write a token", Requirements: "Implement transfer"},
		2: {ChallengeID: 2, Requirements: "Only requirements"},
	}}
	return NewValidationService(challenges, v, v, store, store, time.Hour, nil, logging.NewNopLogger())
}

func TestValidate_ValidIssuesToken(t *testing.T) {
	var sent *domain.ValidationRequest
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		sent = req
		return &domain.ValidationResult{Status: true, SyntaxCorrect: true, CompilableCode: true}, nil
	}}
	store := memstore.New()
	svc := newService(v, store)

	outcome, err := svc.Validate(context.Background(), 1, "alice.edu", "contract A {}")
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationValid, outcome.State)
	assert.Equal(t, uint64(1), outcome.Sequence)
	assert.False(t, outcome.Superseded)
	assert.Equal(t, domain.NewCommitment("contract A {}").Hex(), outcome.ValidationToken)
	assert.Equal(t, "Write a token\n\nImplement transfer", sent.ProblemStatement)
	assert.Equal(t, "contract A {}", sent.Code)

	ok, err := store.HasToken(context.Background(), 1, outcome.ValidationToken)
	require.NoError(t, err)
	assert.True(t, ok)

	latest, err := svc.Latest(context.Background(), 1, "alice.edu")
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationValid, latest.State)
}

func TestValidate_RequirementsOnlyProblemText(t *testing.T) {
	var sent string
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		sent = req.ProblemStatement
		return &domain.ValidationResult{}, nil
	}}
	_, err := newService(v, memstore.New()).Validate(context.Background(), 2, "", "x")
	require.NoError(t, err)
	assert.Equal(t, "Only requirements", sent)
}

func TestValidate_InvalidHasNoToken(t *testing.T) {
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		return &domain.ValidationResult{Status: false, SyntaxCorrect: false, Error: "ParserError"}, nil
	}}
	store := memstore.New()

	outcome, err := newService(v, store).Validate(context.Background(), 1, "bob", "contract {")
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationInvalid, outcome.State)
	assert.Empty(t, outcome.ValidationToken)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "ParserError", outcome.Result.Error)

	ok, _ := store.HasToken(context.Background(), 1, domain.NewCommitment("contract {").Hex())
	assert.False(t, ok)
}

func TestValidate_UnavailableIsDistinctState(t *testing.T) {
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		return nil, fmt.Errorf("%w: connection refused", errs.ValidatorUnavailable)
	}}

	outcome, err := newService(v, memstore.New()).Validate(context.Background(), 1, "bob", "x")
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationUnavailable, outcome.State)
	assert.Nil(t, outcome.Result)
	assert.Contains(t, outcome.Detail, "connection refused")
}

func TestValidate_UnknownChallenge(t *testing.T) {
	v := &mockValidator{}
	_, err := newService(v, memstore.New()).Validate(context.Background(), 7, "bob", "x")
	assert.ErrorIs(t, err, errs.ChallengeNotFound)
}

func TestValidate_StaleResponseIsSuperseded(t *testing.T) {
	slowEntered := make(chan struct{})
	releaseSlow := make(chan struct{})
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		if req.Code == "slow" {
			close(slowEntered)
			<-releaseSlow
			return &domain.ValidationResult{Status: true}, nil
		}
		return &domain.ValidationResult{Status: false, Error: "nope"}, nil
	}}
	store := memstore.New()
	svc := newService(v, store)

	slowDone := make(chan *domain.ValidationOutcome, 1)
	go func() {
		outcome, err := svc.Validate(context.Background(), 1, "carol", "slow")
		assert.NoError(t, err)
		slowDone <- outcome
	}()
	<-slowEntered

	fast, err := svc.Validate(context.Background(), 1, "carol", "fast")
	require.NoError(t, err)
	assert.False(t, fast.Superseded)
	assert.Equal(t, uint64(2), fast.Sequence)

	close(releaseSlow)
	slow := <-slowDone
	assert.True(t, slow.Superseded)
	assert.Equal(t, uint64(1), slow.Sequence)

	latest, err := svc.Latest(context.Background(), 1, "carol")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), latest.Sequence)
	assert.Equal(t, domain.ValidationInvalid, latest.State)
}

func TestValidate_SessionsAreIndependent(t *testing.T) {
	v := &mockValidator{ValidateFunc: func(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
		return &domain.ValidationResult{Status: true}, nil
	}}
	svc := newService(v, memstore.New())

	a, _ := svc.Validate(context.Background(), 1, "a", "x")
	b, _ := svc.Validate(context.Background(), 1, "b", "x")
	assert.Equal(t, uint64(1), a.Sequence)
	assert.Equal(t, uint64(1), b.Sequence)
}

func TestLatest_IdleWhenNothingStored(t *testing.T) {
	latest, err := newService(&mockValidator{}, memstore.New()).Latest(context.Background(), 1, "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationIdle, latest.State)
	assert.Equal(t, uint64(1), latest.ChallengeID)
}

func TestForward(t *testing.T) {
	v := &mockValidator{ForwardFunc: func(ctx context.Context, body []byte) (int, []byte, error) {
		return 200, body, nil
	}}
	status, body, err := newService(v, memstore.New()).Forward(context.Background(), []byte(`{"code":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, `{"code":"x"}`, string(body))

	v.ForwardFunc = func(ctx context.Context, body []byte) (int, []byte, error) {
		return 0, nil, fmt.Errorf("dial tcp: refused")
	}
	_, _, err = newService(v, memstore.New()).Forward(context.Background(), nil)
	assert.ErrorIs(t, err, errs.ValidatorUnavailable)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "alice.edu:3", SessionKey("alice.edu", 3))
	assert.Equal(t, "anonymous:3", SessionKey("", 3))
}
