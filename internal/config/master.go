package config

import "os"

type AppConfig struct {
	DebugMode       bool
	ServerConfig    *ServerConfig
	StoreConfig     *StoreConfig
	MongoConfig     *MongoConfig
	PostgresConfig  *PostgresConfig
	RedisConfig     *RedisConfig
	ChainConfig     *ChainConfig
	ChallengeConfig *ChallengeConfig
	ValidatorConfig *ValidatorConfig
	CountdownConfig *CountdownConfig
	JwtConfig       *JwtConfig
	OCIDAuthConfig  *OCIDAuthConfig
	ResolverConfig  *ResolverConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:       os.Getenv("DEBUG_MODE") == "true",
		ServerConfig:    NewServerConfig(),
		StoreConfig:     NewStoreConfig(),
		MongoConfig:     NewMongoConfig(),
		PostgresConfig:  NewPostgresConfig(),
		RedisConfig:     NewRedisConfig(),
		ChainConfig:     NewChainConfig(),
		ChallengeConfig: NewChallengeConfig(),
		ValidatorConfig: NewValidatorConfig(),
		CountdownConfig: NewCountdownConfig(),
		JwtConfig:       NewJwtConfig(),
		OCIDAuthConfig:  NewOCIDAuthConfig(),
		ResolverConfig:  NewResolverConfig(),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
