package auth

import "os"

// Config holds auth configuration
type Config struct {
	Issuer   string
	JWKSURL  string
	Audience string
}

// LoadConfig reads config from env.
// AUTH_ISSUER and AUTH_JWKS_URL are required in production; AUTH_AUD is optional.
func LoadConfig() Config {
	return Config{
		Issuer:   os.Getenv("AUTH_ISSUER"),
		JWKSURL:  os.Getenv("AUTH_JWKS_URL"),
		Audience: os.Getenv("AUTH_AUD"),
	}
}

// Enabled reports whether token verification is configured. When the host
// platform fronts this service and no issuer is set, auth is disabled and the
// admin surface trusts the caller.
func (c Config) Enabled() bool {
	return c.Issuer != "" && c.JWKSURL != ""
}
