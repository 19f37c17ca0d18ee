package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarlovs/habitsync/internal/flagx"
	"github.com/dkarlovs/habitsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "30s" or
// as integer nanoseconds. After parsing, set values are copied into the
// runtime Config.
type JsonConfig struct {
	ProjectID           string         `json:"project_id"`
	UserID              string         `json:"user_id"`
	TemplatesCollection string         `json:"templates_collection"`
	CacheFile           string         `json:"cache_file"`
	StatusAddr          string         `json:"status_addr"`
	LogFile             string         `json:"log_file"`
	BackoffBase         timex.Duration `json:"backoff_base"`
	BackoffCap          timex.Duration `json:"backoff_cap"`
}

// parseJson overlays cfg with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via flagx.ConfigFilePath;
// when neither is given, nothing is loaded. Fields absent from the file keep
// their prior values. Read or unmarshal errors panic, since a config file
// that was explicitly pointed at must be usable.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ProjectID != "" {
		cfg.ProjectID = jc.ProjectID
	}
	if jc.UserID != "" {
		cfg.UserID = jc.UserID
	}
	if jc.TemplatesCollection != "" {
		cfg.TemplatesCollection = jc.TemplatesCollection
	}
	if jc.CacheFile != "" {
		cfg.CacheFile = jc.CacheFile
	}
	if jc.StatusAddr != "" {
		cfg.StatusAddr = jc.StatusAddr
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.BackoffBase.Duration != 0 {
		cfg.BackoffBase = time.Duration(jc.BackoffBase.Duration)
	}
	if jc.BackoffCap.Duration != 0 {
		cfg.BackoffCap = time.Duration(jc.BackoffCap.Duration)
	}
}
