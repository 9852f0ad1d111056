package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var (
	_ secondary.CodeValidator      = (*Client)(nil)
	_ secondary.ValidatorForwarder = (*Client)(nil)
)

const maxResponseBytes = 1 << 20

// Client talks to the external solution validator over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	attempts   int
	retryDelay time.Duration
	logger     primary.Logger
}

func NewClient(cfg *config.ValidatorConfig, logger primary.Logger) *Client {
	return &Client{
		url:        cfg.Url,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// validatorResponse keeps status optional so a body without it is rejected as malformed.
type validatorResponse struct {
	Status         *bool  `json:"status"`
	SyntaxCorrect  bool   `json:"syntax_correct"`
	CompilableCode bool   `json:"compilable_code"`
	Error          string `json:"error"`
}

func (c *Client) Validate(ctx context.Context, req *domain.ValidationRequest) (*domain.ValidationResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation request: %w", err)
	}

	status, body, err := c.Forward(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ValidatorUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: validator answered %d", errs.ValidatorUnavailable, status)
	}

	var resp validatorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed validator response: %v", errs.ValidatorUnavailable, err)
	}
	if resp.Status == nil {
		return nil, fmt.Errorf("%w: validator response has no status", errs.ValidatorUnavailable)
	}

	return &domain.ValidationResult{
		Status:         *resp.Status,
		SyntaxCorrect:  resp.SyntaxCorrect,
		CompilableCode: resp.CompilableCode,
		Error:          resp.Error,
	}, nil
}

func (c *Client) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	return c.forwardWithRetry(ctx, body)
}

func (c *Client) post(ctx context.Context, body []byte) (reply, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return reply{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Validator request failed", "url", c.url, "error", err)
		return reply{}, err
	}
	defer resp.Body.Close()

	res := reply{status: resp.StatusCode}
	res.body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return res, err
	}
	if res.busy() {
		res.retryAfter, res.hinted = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return res, nil
}
