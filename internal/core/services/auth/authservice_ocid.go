package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ IAuthService = &ocidAuthService{}

const (
	ocidUsernameClaim = "edu_username"
	ethAddressClaim   = "eth_address"
)

type ocidAuthService struct {
	oauth       *oauth2.Config
	jwtProvider primary.JWTService
	logger      primary.Logger
}

func NewOCIDAuthService(cfg *config.OCIDAuthConfig, jwtProvider primary.JWTService, logger primary.Logger) IAuthService {
	return &ocidAuthService{
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectUrl,
			Scopes:      []string{"openid"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthUrl,
				TokenURL:  cfg.TokenUrl,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		jwtProvider: jwtProvider,
		logger:      logger,
	}
}

func (o ocidAuthService) ProviderName() domain.Provider {
	return domain.ProviderOCID
}

func (o ocidAuthService) AuthCodeURL(state, verifier string) string {
	return o.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (o ocidAuthService) Login(ctx context.Context, code, verifier string) (*domain.LoginResponse, error) {
	tok, err := o.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		o.logger.Warn("OCID code exchange failed", "error", err)
		return nil, errs.InvalidCredentials
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, errs.MissingIDToken
	}

	// The id token came straight from the token endpoint over TLS, so its claims are read without a key.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		o.logger.Warn("Malformed OCID id token", "error", err)
		return nil, errs.InvalidCredentials
	}

	ocid, _ := claims[ocidUsernameClaim].(string)
	if strings.TrimSpace(ocid) == "" {
		return nil, errs.MissingOCId
	}
	ethAddress, _ := claims[ethAddressClaim].(string)

	token, err := o.jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{
		"OCId":          ocid,
		ethAddressClaim: ethAddress,
	})
	if err != nil {
		o.logger.Error("Failed to sign app token", "error", err)
		return nil, errs.GeneratingToken
	}

	o.logger.Info("OCID login", "OCId", ocid)
	return &domain.LoginResponse{
		Token:      token,
		OCId:       ocid,
		EthAddress: ethAddress,
	}, nil
}

func (o ocidAuthService) Authenticate(ctx context.Context, token string) (*domain.AuthPayload, error) {
	valid, err := o.jwtProvider.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	if err != nil || !valid {
		return nil, errs.InvalidCredentials
	}
	payload, err := o.jwtProvider.DecodeTokenPayload(ctx, token)
	if err != nil {
		return nil, errs.InvalidCredentials
	}
	if payload.OCId == "" {
		return nil, errs.MissingOCId
	}
	return &payload, nil
}
