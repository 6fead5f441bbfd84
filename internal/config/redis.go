package config

import "time"

type RedisConfig struct {
	Enabled  bool
	DB       int
	Url      string
	Password string
	// ResultTTL bounds how long a cached result may be served.
	ResultTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:   getBoolEnv("REDIS_ENABLED", false),
		DB:        getIntEnv("REDIS_DB", 0),
		Url:       getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		ResultTTL: time.Duration(getIntEnv("RESULT_CACHE_TTL_SEC", 60)) * time.Second,
	}
}
