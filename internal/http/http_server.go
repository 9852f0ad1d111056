package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	auth2 "gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/core/services/certificate"
	"gitlab.com/codebounty.net/internal/core/services/challenge"
	"gitlab.com/codebounty.net/internal/core/services/countdown"
	"gitlab.com/codebounty.net/internal/core/services/enrollment"
	"gitlab.com/codebounty.net/internal/core/services/submission"
	"gitlab.com/codebounty.net/internal/core/services/validation"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/handlers/auth"
	"gitlab.com/codebounty.net/internal/handlers/certificates"
	"gitlab.com/codebounty.net/internal/handlers/challenges"
	"gitlab.com/codebounty.net/internal/handlers/courses"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/metrics"
)

type ServiceProvider struct {
	challengeService   challenge.IChallengeService
	countdownEngine    countdown.ICountdownEngine
	validationService  validation.IValidationService
	submissionService  submission.ISubmissionService
	enrollmentService  enrollment.IEnrollmentService
	certificateService certificate.ICertificateService

	ocidAuth auth2.IAuthService
}

func NewServiceProvider(
	challengeService challenge.IChallengeService,
	countdownEngine countdown.ICountdownEngine,
	validationService validation.IValidationService,
	submissionService submission.ISubmissionService,
	enrollmentService enrollment.IEnrollmentService,
	certificateService certificate.ICertificateService,
	ocidAuth auth2.IAuthService,
) *ServiceProvider {
	return &ServiceProvider{
		challengeService:   challengeService,
		countdownEngine:    countdownEngine,
		validationService:  validationService,
		submissionService:  submissionService,
		enrollmentService:  enrollmentService,
		certificateService: certificateService,
		ocidAuth:           ocidAuth,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	AuthRequired    bool
	WriteBudget     handlers.WriteBudget
	metrics         *metrics.Metrics
	logger          primary.Logger
}

func NewServer(
	port int,
	serviceName string,
	serviceProvider ServiceProvider,
	authRequired bool,
	budget handlers.WriteBudget,
	m *metrics.Metrics,
	logger primary.Logger,
) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		AuthRequired:    authRequired,
		WriteBudget:     budget,
		metrics:         m,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.NewMiddlewareProvider(s.ServiceProvider.ocidAuth, s.AuthRequired, s.logger)
	r.Use(mw.RequestLogger, s.metrics.Middleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteSuccess(w, map[string]interface{}{"success": true, "service": s.ServiceName})
	}).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	courses.NewHandler(s.ServiceProvider.enrollmentService, s.logger).RegisterRoutes(r, mw)
	challenges.NewHandler(challenges.ServiceDependencies{
		Challenges:  s.ServiceProvider.challengeService,
		Countdown:   s.ServiceProvider.countdownEngine,
		Validations: s.ServiceProvider.validationService,
		Submissions: s.ServiceProvider.submissionService,
	}, s.WriteBudget, s.logger).RegisterRoutes(r, mw)
	certificates.NewHandler(s.ServiceProvider.certificateService, s.WriteBudget, s.logger).RegisterRoutes(r, mw)
	if s.ServiceProvider.ocidAuth != nil {
		auth.NewHandler(s.logger).RegisterRoutes(r, &auth.ServiceDependencies{
			OCIDAuthService: s.ServiceProvider.ocidAuth,
		})
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})
	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background; errc receives the listener error if serving stops unexpectedly.
// WriteTimeout bounds ordinary routes; handlers that wait on the chain or the validator extend it per request.
func (s *Server) Start(ctx context.Context) <-chan error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
