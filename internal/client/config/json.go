package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffbook/internal/flagx"
	"github.com/dmitrijs2005/staffbook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts may
// be strings like "15s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	SessionDSN     string         `json:"session_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Read or unmarshal errors panic.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionDSN != "" {
		cfg.SessionDSN = jc.SessionDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
