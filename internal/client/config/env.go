package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvAPIURL       = "CHATDESK_API_URL"
	EnvDocumentsURL = "CHATDESK_DOCUMENTS_URL"

	defaultEnvFile = ".env"
)

// parseEnv overlays Config with CHATDESK_* variables. Values come from the
// process environment first and from a dotenv file second. The file is the
// one named by -e/-env, or ./.env when present. A missing ./.env is fine;
// a missing or malformed explicit file panics.
func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileVals, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		fileVals = map[string]string{}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.APIURL = v
	}
	if v, ok := lookup(EnvDocumentsURL); ok && v != "" {
		cfg.DocumentsURL = v
	}
}
