package validator

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRetryDelay = 2 * time.Second
	maxRetryDelay     = 30 * time.Second
)

// reply is one answer from the validator, before the caller decides whether to try again.
type reply struct {
	status     int
	body       []byte
	retryAfter time.Duration
	hinted     bool
}

// busy reports whether the validator asked to be called again later.
func (r reply) busy() bool {
	return r.status == http.StatusTooManyRequests || r.status >= http.StatusInternalServerError
}

// forwardWithRetry posts body until the validator gives a final answer or the attempts run out.
// A Retry-After hint replaces the backoff for that wait; both are capped at maxRetryDelay.
func (c *Client) forwardWithRetry(ctx context.Context, body []byte) (int, []byte, error) {
	attempts := max(c.attempts, 1)
	backoff := c.retryDelay
	if backoff <= 0 {
		backoff = defaultRetryDelay
	}

	for n := 1; ; n++ {
		res, err := c.post(ctx, body)
		if err == nil && !res.busy() {
			return res.status, res.body, nil
		}
		if n == attempts {
			return res.status, res.body, err
		}

		wait := backoff
		if res.hinted {
			wait = res.retryAfter
		}
		wait = min(wait, maxRetryDelay)
		c.logger.Warn("Retrying validator request", "attempt", n, "of", attempts, "status", res.status,
			"wait", wait.String(), "error", err)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return res.status, res.body, ctx.Err()
		case <-t.C:
		}
		backoff = min(backoff*2, maxRetryDelay)
	}
}

// parseRetryAfter reads a Retry-After header given either as seconds or as an HTTP date.
func parseRetryAfter(h string, now time.Time) (time.Duration, bool) {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	at, err := http.ParseTime(h)
	if err != nil {
		return 0, false
	}
	return max(at.Sub(now), 0), true
}

// MaxDuration is the longest a single Validate or Forward call can take:
// every attempt running into the HTTP timeout plus the longest wait between them.
func (c *Client) MaxDuration() time.Duration {
	attempts := max(c.attempts, 1)
	return time.Duration(attempts)*c.httpClient.Timeout + time.Duration(attempts-1)*maxRetryDelay
}
