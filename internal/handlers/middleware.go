package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/static/errs"
)

const RequestIDHeader = "X-Request-ID"

type MiddlewareProvider struct {
	authService auth.IAuthService
	enabled     bool
	logger      primary.Logger
}

// NewMiddlewareProvider builds the request middlewares. With enabled false the JWT guard lets everything through.
func NewMiddlewareProvider(authService auth.IAuthService, enabled bool, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		authService: authService,
		enabled:     enabled,
		logger:      logger,
	}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		payload, err := m.authService.Authenticate(r.Context(), tokenString)
		if err != nil {
			m.logger.Warn("Rejected token", "path", r.URL.Path, "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), payload)))
	})
}

// Guard wraps a single handler func with the JWT middleware.
func (m *MiddlewareProvider) Guard(fn http.HandlerFunc) http.Handler {
	return m.JWTMiddleware(fn)
}

type loggingRecorder struct {
	http.ResponseWriter
	status int
}

func (r *loggingRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *loggingRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *loggingRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger tags each request with an id and logs its outcome.
func (m *MiddlewareProvider) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &loggingRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.logger.Info("Request handled",
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// WriteOCIdMismatch answers 403 when CheckOCId failed; it reports whether it wrote.
func WriteOCIdMismatch(w http.ResponseWriter, err error) bool {
	if errors.Is(err, errs.OCIdMismatch) {
		response.Error(w, http.StatusForbidden, "OCId does not match the authenticated user")
		return true
	}
	return false
}
