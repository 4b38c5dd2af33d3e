package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
	"github.com/dmitrijs2005/chatdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	APIURL              string         `json:"api_url"`
	DocumentsURL        string         `json:"documents_url"`
	StatePath           string         `json:"state_path"`
	LogFile             string         `json:"log_file"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DocumentsCacheTTL   timex.Duration `json:"documents_cache_ttl"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys absent from the file leave the current values alone.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DocumentsURL, jc.DocumentsURL)
	setString(&cfg.StatePath, jc.StatePath)
	setString(&cfg.LogFile, jc.LogFile)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DocumentsCacheTTL.Duration > 0 {
		cfg.DocumentsCacheTTL = jc.DocumentsCacheTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
