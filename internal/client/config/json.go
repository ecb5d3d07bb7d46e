package config

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/timex"
	"github.com/spf13/afero"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from zero so that a partial file only overrides what it
// names. Durations accept "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL        *string `json:"server_url"`
	TargetFolderID   *string `json:"target_folder_id"`
	AnchorFolderName *string `json:"anchor_folder_name"`
	DBPath           *string `json:"db_path"`
	LogLevel         *string `json:"log_level"`
	LogFile          *string `json:"log_file"`
	MetricsTextfile  *string `json:"metrics_textfile"`

	RequestTimeout    *timex.Duration `json:"request_timeout"`
	MaxRetries        *int            `json:"max_retries"`
	RetryDelay        *timex.Duration `json:"retry_delay"`
	MaxWaitAttempts   *int            `json:"max_wait_attempts"`
	WaitInterval      *timex.Duration `json:"wait_interval"`
	FolderSearchDepth *int            `json:"folder_search_depth"`
	UserAgent         *string         `json:"user_agent"`
}

// parseJSON overlays cfg with values from path. An empty path is a no-op;
// a path that cannot be read or decoded is an error.
func parseJSON(fs afero.Fs, path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.TargetFolderID, jc.TargetFolderID)
	setString(&cfg.AnchorFolderName, jc.AnchorFolderName)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.MetricsTextfile, jc.MetricsTextfile)
	setString(&cfg.UserAgent, jc.UserAgent)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryDelay != nil {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
	if jc.WaitInterval != nil {
		cfg.WaitInterval = jc.WaitInterval.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.MaxWaitAttempts != nil {
		cfg.MaxWaitAttempts = *jc.MaxWaitAttempts
	}
	if jc.FolderSearchDepth != nil {
		cfg.FolderSearchDepth = *jc.FolderSearchDepth
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
