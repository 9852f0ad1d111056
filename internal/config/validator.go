package config

import "time"

type ValidatorConfig struct {
	Url        string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	TokenTTL   time.Duration
	StateTTL   time.Duration
}

func NewValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		Url:        getEnv("VALIDATOR_URL", "http://localhost:8000/validate-code"),
		Timeout:    getSecondsEnv("VALIDATOR_TIMEOUT_SEC", 60),
		Attempts:   getIntEnv("VALIDATOR_ATTEMPTS", 2),
		RetryDelay: getSecondsEnv("VALIDATOR_RETRY_DELAY_SEC", 2),
		TokenTTL:   getSecondsEnv("VALIDATION_TOKEN_TTL_SEC", 24*60*60),
		StateTTL:   getSecondsEnv("VALIDATION_STATE_TTL_SEC", 24*60*60),
	}
}
