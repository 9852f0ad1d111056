package auth

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type IAuthService interface {
	ProviderName() domain.Provider

	// AuthCodeURL is where the browser goes to sign in. The verifier is the PKCE secret for this attempt.
	AuthCodeURL(state, verifier string) string

	// Login exchanges the callback code and issues an app token.
	Login(ctx context.Context, code, verifier string) (*domain.LoginResponse, error)

	// Authenticate verifies an app token and returns its claims.
	Authenticate(ctx context.Context, token string) (*domain.AuthPayload, error)
}
