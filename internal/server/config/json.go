package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
	"github.com/dmitrijs2005/chatdesk/internal/timex"
)

// JsonConfig is the JSON shape of Config. TokenValidity accepts "30m" as
// well as integer nanoseconds.
type JsonConfig struct {
	Addr          string         `json:"addr"`
	SecretKey     string         `json:"secret_key"`
	TokenValidity timex.Duration `json:"token_validity"`
	AdminUser     string         `json:"admin_user"`
	AdminPassword string         `json:"admin_password"`
	LogFile       string         `json:"log_file"`
}

// parseJson overlays config with the JSON file named by -c or -config.
// Empty values keep what is already set. Panics when the file cannot be
// read or decoded.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AdminUser, c.AdminUser)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.LogFile, c.LogFile)
	if c.TokenValidity.Duration > 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
