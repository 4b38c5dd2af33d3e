// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the chatdesk development backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - TokenValidity: access token lifetime.
//   - AdminUser / AdminPassword: the administrator account seeded at startup.
//   - LogFile: JSON log file (rotated); empty logs to stdout only.
type Config struct {
	Addr          string
	SecretKey     string
	TokenValidity time.Duration
	AdminUser     string
	AdminPassword string
	LogFile       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8000"
	c.SecretKey = "secretKey"
	c.TokenValidity = 30 * time.Minute
	c.AdminUser = "admin"
	c.AdminPassword = "adminpassword"
	c.LogFile = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
