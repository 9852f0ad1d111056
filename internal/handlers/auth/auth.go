package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/handlers/response"
	"gitlab.com/codebounty.net/internal/static/errs"
)

const (
	stateCookie    = "ocid_state"
	verifierCookie = "ocid_verifier"
	loginWindow    = 10 * time.Minute
)

type ServiceDependencies struct {
	OCIDAuthService auth.IAuthService
}

type Handler struct {
	providerHandler map[domain.Provider]auth.IAuthService
	logger          primary.Logger
}

func NewHandler(logger primary.Logger) *Handler {
	return &Handler{
		providerHandler: make(map[domain.Provider]auth.IAuthService),
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, svcDep *ServiceDependencies) {
	h.providerHandler[domain.ProviderOCID] = svcDep.OCIDAuthService
	router.HandleFunc("/auth/ocid", h.OCIDLoginHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/ocid/callback", h.OCIDCallbackHandler).Methods(http.MethodGet)
}

// OCIDLoginHandler redirects the user to the Open Campus ID login page with a fresh PKCE pair.
func (h *Handler) OCIDLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	setCookie(w, r, stateCookie, state, loginWindow)
	setCookie(w, r, verifierCookie, verifier, loginWindow)

	url := h.providerHandler[domain.ProviderOCID].AuthCodeURL(state, verifier)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type LoginResponse struct {
	Success bool `json:"success"`
	*domain.LoginResponse
}

// OCIDCallbackHandler finishes the login and returns the app token.
func (h *Handler) OCIDCallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if e := query.Get("error"); e != "" {
		response.Error(w, http.StatusUnauthorized, "Login cancelled: "+e)
		return
	}

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != query.Get("state") {
		response.Error(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	verifier, err := r.Cookie(verifierCookie)
	if err != nil || verifier.Value == "" {
		response.Error(w, http.StatusBadRequest, "Missing PKCE verifier")
		return
	}
	code := query.Get("code")
	if code == "" {
		response.Error(w, http.StatusBadRequest, "No code in URL")
		return
	}

	setCookie(w, r, stateCookie, "", -1)
	setCookie(w, r, verifierCookie, "", -1)

	login, err := h.providerHandler[domain.ProviderOCID].Login(r.Context(), code, verifier.Value)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, errs.GeneratingToken) {
			status = http.StatusInternalServerError
		}
		h.logger.Warn("OCID login failed", "error", err)
		response.Error(w, status, err.Error())
		return
	}
	response.WriteSuccess(w, LoginResponse{Success: true, LoginResponse: login})
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth/ocid",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
