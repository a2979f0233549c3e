package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/staffdesk/staffdesk/internal/flagx"
	"github.com/staffdesk/staffdesk/internal/timex"
)

// jsonConfig is the DTO for JSON unmarshalling. timex.Duration lets the file
// spell the timeout as "30s".
type jsonConfig struct {
	DatabaseURL *string         `json:"database_url"`
	Offline     *bool           `json:"offline"`
	PageSize    *int            `json:"page_size"`
	OpTimeout   *timex.Duration `json:"op_timeout"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flags. Absent file means no overlay; fields missing from the
// file keep their current values. Read or parse errors panic, matching how
// an unusable explicit config should stop startup.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseURL != nil {
		cfg.DatabaseURL = *jc.DatabaseURL
	}
	if jc.Offline != nil {
		cfg.Offline = *jc.Offline
	}
	if jc.PageSize != nil && *jc.PageSize > 0 {
		cfg.PageSize = *jc.PageSize
	}
	if jc.OpTimeout != nil {
		cfg.OpTimeout = time.Duration(jc.OpTimeout.Duration)
	}
}
