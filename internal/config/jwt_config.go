package config

import (
	"os"
	"time"
)

type JwtConfig struct {
	// Secret signs app tokens. When empty the user routes are not guarded.
	Secret string
	TTL    time.Duration
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
		TTL:    getSecondsEnv("JWT_TTL_SEC", 60*60),
	}
}
