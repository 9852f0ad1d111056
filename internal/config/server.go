package config

type ServerConfig struct {
	Port        int
	ServiceName string
	LogLevel    string
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getIntEnv("HTTP_PORT", 8082),
		ServiceName: getEnv("SERVICE_NAME", "codebounty"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}
