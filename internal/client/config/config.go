package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the chatdesk CLI.
//
// Fields:
//   - APIURL: base URL of the auth/user/admin API.
//   - DocumentsURL: base URL of the documents/query/image API; empty means APIURL.
//   - StatePath: SQLite file holding the persisted session.
//   - LogFile: JSON log file (rotated); empty disables file logging.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: per-request HTTP timeout.
//   - DocumentsCacheTTL: how long a document listing is reused; 0 disables.
type Config struct {
	APIURL              string
	DocumentsURL        string
	StatePath           string
	LogFile             string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	DocumentsCacheTTL   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8000"
	c.DocumentsURL = ""
	c.StatePath = filepath.Join(stateDir(), "state.db")
	c.LogFile = filepath.Join(stateDir(), "chatdesk.log")
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.DocumentsCacheTTL = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env file), JSON (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func stateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".chatdesk"
	}
	return filepath.Join(dir, "chatdesk")
}
