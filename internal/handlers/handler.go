package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

// WriteBudget is how long a handler waiting on an upstream may keep its connection writable.
// Chain covers sending a transaction and waiting for it to be mined; Validator covers every validator attempt.
type WriteBudget struct {
	Chain     time.Duration
	Validator time.Duration
}

// WithWriteDeadline moves the connection's write deadline to d from the start of the request,
// overriding the server-wide WriteTimeout. A zero d removes the deadline.
func WithWriteDeadline(d time.Duration, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var deadline time.Time
		if d > 0 {
			deadline = time.Now().Add(d)
		}
		_ = http.NewResponseController(w).SetWriteDeadline(deadline)
		fn(w, r)
	}
}

type authKey struct{}

// WithAuth stores verified token claims on the request context.
func WithAuth(ctx context.Context, payload *domain.AuthPayload) context.Context {
	return context.WithValue(ctx, authKey{}, payload)
}

// AuthFromContext returns the verified claims, or nil when the route is not guarded.
func AuthFromContext(ctx context.Context) *domain.AuthPayload {
	payload, _ := ctx.Value(authKey{}).(*domain.AuthPayload)
	return payload
}

// CheckOCId rejects a request whose OCId differs from the authenticated one.
// Unauthenticated requests pass; the guard decides whether they are allowed at all.
func CheckOCId(ctx context.Context, ocid string) error {
	payload := AuthFromContext(ctx)
	if payload == nil || ocid == "" {
		return nil
	}
	if payload.OCId != ocid {
		return errs.OCIdMismatch
	}
	return nil
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

// ChallengeID parses the {id} route variable.
func ChallengeID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
}
