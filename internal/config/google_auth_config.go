package config

type GGAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// ForceEmailDomain, when set, only admits Google accounts of that domain.
	ForceEmailDomain string
}

func NewGGAuthConfig() *GGAuthConfig {
	return &GGAuthConfig{
		ClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:      getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8082/auth/callback"),
		ForceEmailDomain: getEnv("FORCE_EMAIL_DOMAIN", ""),
	}
}
