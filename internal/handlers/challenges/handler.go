package challenges

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/services/challenge"
	"gitlab.com/codebounty.net/internal/core/services/countdown"
	"gitlab.com/codebounty.net/internal/core/services/submission"
	"gitlab.com/codebounty.net/internal/core/services/validation"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/static/errs"
)

const (
	msgValidatorUnavailable = "Validation service unavailable"
	msgSubmitFailed         = "Failed to submit solution"
	msgCreateFailed         = "Failed to create challenge"
	msgChainUnavailable     = "Chain access is not configured"
)

type ServiceDependencies struct {
	Challenges  challenge.IChallengeService
	Countdown   countdown.ICountdownEngine
	Validations validation.IValidationService
	Submissions submission.ISubmissionService
}

// Handler serves the challenge lifecycle: read, countdown, validate, submit, create.
type Handler struct {
	svc      ServiceDependencies
	budget   handlers.WriteBudget
	validate *validator.Validate
	logger   primary.Logger
}

func NewHandler(svc ServiceDependencies, budget handlers.WriteBudget, logger primary.Logger) *Handler {
	return &Handler{
		svc:      svc,
		budget:   budget,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts the challenge API. Create and submit sign transactions with the service
// wallet, so they sit behind the JWT guard.
func (h *Handler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.HandleFunc("/api/challenges", h.ListChallenges).Methods(http.MethodGet)
	router.Handle("/api/challenges",
		mw.Guard(handlers.WithWriteDeadline(h.budget.Chain, h.CreateChallenge))).Methods(http.MethodPost)
	router.HandleFunc("/api/challenges/{id}", h.GetChallenge).Methods(http.MethodGet)
	router.HandleFunc("/api/challenges/{id}/countdown", h.GetCountdown).Methods(http.MethodGet)
	router.HandleFunc("/api/challenges/{id}/countdown/stream", h.StreamCountdown).Methods(http.MethodGet)
	router.HandleFunc("/api/challenges/{id}/validate",
		handlers.WithWriteDeadline(h.budget.Validator, h.Validate)).Methods(http.MethodPost)
	router.HandleFunc("/api/challenges/{id}/validation", h.LatestValidation).Methods(http.MethodGet)
	router.Handle("/api/challenges/{id}/submit",
		mw.Guard(handlers.WithWriteDeadline(h.budget.Chain, h.Submit))).Methods(http.MethodPost)
	router.HandleFunc("/api/validate-code",
		handlers.WithWriteDeadline(h.budget.Validator, h.ValidateCode)).Methods(http.MethodPost)
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	var filter domain.ChallengeFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := domain.ParseChallengeStatus(s)
		if !ok {
			response.Error(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	filter.Query = r.URL.Query().Get("q")

	list, err := h.svc.Challenges.ListChallenges(r.Context(), filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	response.WriteSuccess(w, ListResponse{Success: true, Mode: h.svc.Challenges.Mode(), Challenges: list})
}

// loadChallenge resolves the {id} variable; it writes the error response itself and returns nil on failure.
func (h *Handler) loadChallenge(w http.ResponseWriter, r *http.Request) *domain.Challenge {
	id, err := handlers.ChallengeID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidChallenge)
		return nil
	}
	c, err := h.svc.Challenges.GetChallenge(r.Context(), id)
	if err != nil {
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
		return nil
	}
	return c
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	c := h.loadChallenge(w, r)
	if c == nil {
		return
	}
	response.WriteSuccess(w, ChallengeResponse{Success: true, Challenge: c})
}

func (h *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	c := h.loadChallenge(w, r)
	if c == nil {
		return
	}
	tick, err := h.svc.Countdown.Current(r.Context(), c)
	if err != nil {
		h.logger.Error("Failed to read countdown", "challengeId", c.ChallengeID, "error", err)
		response.Error(w, http.StatusBadGateway, "Failed to read remaining time")
		return
	}
	response.WriteSuccess(w, CountdownResponse{Success: true, ChallengeID: c.ChallengeID, Countdown: tick})
}

// StreamCountdown pushes countdown ticks as server-sent events until the client leaves or the countdown ends.
func (h *Handler) StreamCountdown(w http.ResponseWriter, r *http.Request) {
	c := h.loadChallenge(w, r)
	if c == nil {
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	err := h.svc.Countdown.Watch(r.Context(), c, func(t countdown.Tick) {
		data, _ := json.Marshal(t)
		if _, err := fmt.Fprintf(w, "event: countdown\ndata: %s\n\n", data); err != nil {
			return
		}
		_ = rc.Flush()
	})
	if err != nil && !errors.Is(err, r.Context().Err()) {
		h.logger.Warn("Countdown stream ended", "challengeId", c.ChallengeID, "error", err)
	}
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ChallengeID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidChallenge)
		return
	}
	var req ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Code is required")
		return
	}

	outcome, err := h.svc.Validations.Validate(r.Context(), id, sessionID(r, req.OCId), req.Code)
	switch {
	case errors.Is(err, errs.ChallengeNotFound):
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
		return
	case err != nil:
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	if outcome.State == domain.ValidationUnavailable {
		response.WriteJSON(w, http.StatusServiceUnavailable, ValidationResponse{
			ValidationOutcome: outcome,
			Error:             msgValidatorUnavailable,
		})
		return
	}
	response.WriteSuccess(w, ValidationResponse{Success: true, ValidationOutcome: outcome})
}

func (h *Handler) LatestValidation(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ChallengeID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidChallenge)
		return
	}
	outcome, err := h.svc.Validations.Latest(r.Context(), id, sessionID(r, r.URL.Query().Get("OCId")))
	if err != nil {
		h.logger.Error("Failed to load validation state", "challengeId", id, "error", err)
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	response.WriteSuccess(w, ValidationResponse{Success: true, ValidationOutcome: outcome})
}

// sessionID prefers the authenticated OCId over the one the client sent.
func sessionID(r *http.Request, ocid string) string {
	if payload := handlers.AuthFromContext(r.Context()); payload != nil {
		return payload.OCId
	}
	return ocid
}

// Submit sends the validated solution's hash on chain. The service wallet signs the transaction,
// so the contract records that wallet as submitter, and as winner if the solution is accepted.
// The solver is known only off chain, from the authenticated OCId logged with the transaction hash.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ChallengeID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidChallenge)
		return
	}
	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Code is required")
		return
	}

	receipt, err := h.svc.Submissions.Submit(r.Context(), id, req.Code, req.ValidationToken)
	switch {
	case err == nil:
		if payload := handlers.AuthFromContext(r.Context()); payload != nil {
			h.logger.Info("Solution submitted for caller", "challengeId", id, "OCId", payload.OCId,
				"ethAddress", payload.EthAddress, "txHash", receipt.TxHash)
		}
		response.WriteSuccess(w, SubmitResponse{Success: true, SubmissionReceipt: receipt})
	case errors.Is(err, errs.ValidationRequired):
		response.Error(w, http.StatusPreconditionFailed, "Solution must pass validation before submission")
	case errors.Is(err, errs.ChallengeNotFound):
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
	case errors.Is(err, errs.WalletUnavailable):
		response.WriteError(w, response.ErrorMessage{
			Message:    msgSubmitFailed,
			Detail:     errs.WalletUnavailable.Error(),
			StatusCode: http.StatusServiceUnavailable,
		})
	default:
		response.WriteError(w, response.ErrorMessage{
			Message:    msgSubmitFailed,
			Detail:     err.Error(),
			StatusCode: http.StatusBadGateway,
		})
	}
}

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req CreateChallengeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    "Invalid challenge",
			Detail:     err.Error(),
			StatusCode: http.StatusBadRequest,
		})
		return
	}
	if !req.BountyAmount.IsPositive() {
		response.Error(w, http.StatusBadRequest, "Bounty amount must be positive")
		return
	}

	receipt, err := h.svc.Challenges.CreateChallenge(r.Context(), &domain.NewChallenge{
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Tags:           req.Tags,
		BountyAmount:   req.BountyAmount,
		DurationInDays: req.DurationInDays,
	})
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusCreated, CreateChallengeResponse{Success: true, TxReceipt: receipt})
	case errors.Is(err, errs.InvalidChallenge):
		response.Error(w, http.StatusBadRequest, "Title and requirements must contain text")
	case errors.Is(err, errs.ChainUnavailable):
		response.Error(w, http.StatusServiceUnavailable, msgChainUnavailable)
	default:
		response.WriteError(w, response.ErrorMessage{
			Message:    msgCreateFailed,
			Detail:     err.Error(),
			StatusCode: http.StatusBadGateway,
		})
	}
}

// ValidateCode relays {problem_statement, code} to the validator and returns its answer untouched.
func (h *Handler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, handlers.MaxBodyBytes))
	if err != nil || !json.Valid(body) {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	status, resp, err := h.svc.Validations.Forward(r.Context(), body)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, msgValidatorUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resp)
}
