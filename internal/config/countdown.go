package config

import "time"

type CountdownConfig struct {
	Period time.Duration
}

func NewCountdownConfig() *CountdownConfig {
	return &CountdownConfig{
		Period: getSecondsEnv("COUNTDOWN_PERIOD_SEC", 60),
	}
}
