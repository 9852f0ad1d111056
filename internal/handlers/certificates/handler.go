package certificates

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/services/certificate"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/static/errs"
)

type Handler struct {
	certificates certificate.ICertificateService
	budget       handlers.WriteBudget
	validate     *validator.Validate
	logger       primary.Logger
}

func NewHandler(certificates certificate.ICertificateService, budget handlers.WriteBudget, logger primary.Logger) *Handler {
	return &Handler{
		certificates: certificates,
		budget:       budget,
		validate:     validator.New(),
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.HandleFunc("/api/certificates/{address}", h.GetStatus).Methods(http.MethodGet)
	router.Handle("/api/certificates",
		mw.Guard(handlers.WithWriteDeadline(h.budget.Chain, h.Mint))).Methods(http.MethodPost)
}

type StatusResponse struct {
	Success   bool   `json:"success"`
	Address   string `json:"address"`
	HasMinted bool   `json:"hasMinted"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	if err := h.validate.Var(address, "required,eth_addr"); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid address")
		return
	}

	minted, err := h.certificates.HasMinted(r.Context(), address)
	if err != nil {
		h.writeChainError(w, err, "Failed to read certificate status")
		return
	}
	response.WriteSuccess(w, StatusResponse{Success: true, Address: address, HasMinted: minted})
}

type MintRequest struct {
	OCId          string `json:"OCId" validate:"required"`
	CourseID      string `json:"courseId" validate:"required"`
	Address       string `json:"address" validate:"required,eth_addr"`
	MetadataIndex uint64 `json:"metadataIndex"`
}

type MintResponse struct {
	Success bool `json:"success"`
	*domain.MintReceipt
}

func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    "Invalid mint request",
			Detail:     err.Error(),
			StatusCode: http.StatusBadRequest,
		})
		return
	}
	if handlers.WriteOCIdMismatch(w, handlers.CheckOCId(r.Context(), req.OCId)) {
		return
	}

	receipt, err := h.certificates.Mint(r.Context(), &domain.MintRequest{
		OCId:          req.OCId,
		CourseID:      req.CourseID,
		Address:       req.Address,
		MetadataIndex: req.MetadataIndex,
	})
	switch {
	case err == nil:
		response.WriteSuccess(w, MintResponse{Success: true, MintReceipt: receipt})
	case errors.Is(err, errs.CourseNotCompleted):
		response.Error(w, http.StatusForbidden, "Course has not been completed")
	case errors.Is(err, errs.AlreadyMinted):
		response.Error(w, http.StatusConflict, errs.AlreadyMinted.Error())
	default:
		h.writeChainError(w, err, "Failed to mint certificate")
	}
}

func (h *Handler) writeChainError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, errs.ChainUnavailable) {
		response.Error(w, http.StatusServiceUnavailable, "Chain access is not configured")
		return
	}
	h.logger.Error(message, "error", err)
	response.WriteError(w, response.ErrorMessage{
		Message:    message,
		Detail:     err.Error(),
		StatusCode: http.StatusBadGateway,
	})
}
