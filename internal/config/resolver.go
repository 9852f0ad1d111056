package config

import (
	"os"
	"time"
)

type ResolverConfig struct {
	Enabled  bool
	Interval time.Duration
	Workers  int
}

func NewResolverConfig() *ResolverConfig {
	workers := getIntEnv("RESOLVER_WORKERS", 2)
	if workers <= 0 {
		workers = 2
	}
	return &ResolverConfig{
		Enabled:  os.Getenv("RESOLVER_ENABLED") == "true",
		Interval: getSecondsEnv("RESOLVER_INTERVAL_SEC", 300),
		Workers:  workers,
	}
}
