package config

import "time"

type JwtConfig struct {
	Secret   string
	TokenTTL time.Duration
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret:   getEnv("JWT_SECRET", ""),
		TokenTTL: time.Duration(getIntEnv("JWT_TTL_MIN", 60)) * time.Minute,
	}
}
