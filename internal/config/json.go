package config

import (
	"encoding/json"
	"os"

	"github.com/toxidity-18/Veritas/internal/flagx"
	"github.com/toxidity-18/Veritas/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15m"
// or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	TokenValidity   timex.Duration `json:"token_validity"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
	LocalCachePath  string         `json:"local_cache_path"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// comes from the -c/-config flags. Absent file path means no overlay.
// Fields left empty in the JSON keep their current values.
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

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidity.Duration != 0 {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.RefreshInterval.Duration != 0 {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.LocalCachePath != "" {
		cfg.LocalCachePath = jc.LocalCachePath
	}
}
