package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kendallhq/managerpro/internal/flagx"
	"github.com/kendallhq/managerpro/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type jsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabasePath    string         `json:"database_path"`
	KeyPrefix       string         `json:"key_prefix"`
	SessionDuration timex.Duration `json:"session_duration"`
	PollInterval    timex.Duration `json:"poll_interval"`
}

// parseJSON overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JSONConfigFlags; when no
// path is given the function is a no-op. Read or unmarshal errors panic
// (misconfiguration should stop startup). Empty/zero JSON fields leave the
// corresponding Config field untouched.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeyPrefix != "" {
		cfg.KeyPrefix = jc.KeyPrefix
	}
	if jc.SessionDuration.Duration != 0 {
		cfg.SessionDuration = time.Duration(jc.SessionDuration.Duration)
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
}
