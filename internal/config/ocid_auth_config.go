package config

import "os"

type OCIDAuthConfig struct {
	ClientID    string
	AuthUrl     string
	TokenUrl    string
	RedirectUrl string
}

func NewOCIDAuthConfig() *OCIDAuthConfig {
	return &OCIDAuthConfig{
		ClientID:    os.Getenv("OCID_CLIENT_ID"),
		AuthUrl:     getEnv("OCID_AUTH_URL", "https://auth.staging.opencampus.xyz/login"),
		TokenUrl:    getEnv("OCID_TOKEN_URL", "https://auth.staging.opencampus.xyz/oauth/token"),
		RedirectUrl: getEnv("OCID_REDIRECT_URL", "http://localhost:8082/auth/ocid/callback"),
	}
}
