package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/adapter/logging"
	"gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/metrics"
	"gitlab.com/codebounty.net/internal/static/errs"
)

func newTestServer(t *testing.T) *Server {
	s := NewServer(0, "codebounty", ServiceProvider{}, false, handlers.WriteBudget{}, metrics.NewMetrics("codebounty"), logging.NewNopLogger())
	require.NoError(t, s.Init())
	return s
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"service":"codebounty"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpointCountsRoutes(t *testing.T) {
	s := newTestServer(t)
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not Found"}`, rec.Body.String())
}

func TestOCIDRoutesOnlyWhenConfigured(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/ocid", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type rejectingAuth struct {
	auth.IAuthService
}

func (rejectingAuth) Authenticate(ctx context.Context, token string) (*domain.AuthPayload, error) {
	return nil, errs.InvalidCredentials
}

type countingCreator struct {
	calls int
}

func (c *countingCreator) Mode() domain.SourceMode { return domain.SourceModeFixture }

func (c *countingCreator) GetChallenge(ctx context.Context, id uint64) (*domain.Challenge, error) {
	return nil, errs.ChallengeNotFound
}

func (c *countingCreator) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	return nil, nil
}

func (c *countingCreator) CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error) {
	c.calls++
	return &domain.TxReceipt{TxHash: "0xabc"}, nil
}

func TestWalletRoutesGuardedWhenAuthRequired(t *testing.T) {
	creator := &countingCreator{}
	provider := ServiceProvider{challengeService: creator, ocidAuth: rejectingAuth{}}
	s := NewServer(0, "codebounty", provider, true, handlers.WriteBudget{}, metrics.NewMetrics("codebounty"), logging.NewNopLogger())
	require.NoError(t, s.Init())

	for _, target := range []string{"/api/challenges", "/api/challenges/1/submit", "/api/certificates"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`))
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
	assert.Zero(t, creator.calls)
}
