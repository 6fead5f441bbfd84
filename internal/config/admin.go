package config

// AdminConfig seeds a local admin account at startup. Empty UserName skips it.
type AdminConfig struct {
	UserName string
	Password string
}

func NewAdminConfig() *AdminConfig {
	return &AdminConfig{
		UserName: getEnv("ADMIN_USERNAME", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}
}

func (c *AdminConfig) Enabled() bool {
	return c.UserName != "" && c.Password != ""
}
