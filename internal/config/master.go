package config

import "os"

type StorageDriver string

const (
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

type AppConfig struct {
	DebugMode      bool
	LogLevel       string
	StorageDriver  StorageDriver
	HttpConfig     *HttpConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	GGAuthConfig   *GGAuthConfig
	AdminConfig    *AdminConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageDriver:  StorageDriver(getEnv("STORAGE_DRIVER", string(StoragePostgres))),
		HttpConfig:     NewHttpConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		GGAuthConfig:   NewGGAuthConfig(),
		AdminConfig:    NewAdminConfig(),
	}
}
