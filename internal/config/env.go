package config

import (
	"os"
	"strconv"
	"time"
)

// getIntEnv reads an integer variable, falling back on absence or parse failure.
func getIntEnv(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getSecondsEnv(key string, fallbackSec int) time.Duration {
	sec := getIntEnv(key, fallbackSec)
	if sec <= 0 {
		sec = fallbackSec
	}
	return time.Duration(sec) * time.Second
}
