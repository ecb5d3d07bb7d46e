package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environment variable names.
const (
	EnvServerURL        = "SERVER_URL"
	EnvUsername         = "USERNAME"
	EnvPassword         = "PASSWORD"
	EnvTargetFolderID   = "TARGET_FOLDER_ID"
	EnvTargetSender     = "TARGET_SENDER"
	EnvAnchorFolderName = "ANCHOR_FOLDER_NAME"
	EnvDBPath           = "DB_PATH"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFile          = "LOG_FILE"
	EnvMetricsTextfile  = "METRICS_TEXTFILE"
)

type lookupFunc func(string) (string, bool)

// readDotenv parses a dotenv file without touching the process environment.
// A missing file yields an empty map.
func readDotenv(fsys afero.Fs, path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	return values, nil
}

// chainLookup prefers the real environment and falls back to dotenv values,
// matching godotenv.Load which never overrides variables already set.
func chainLookup(primary lookupFunc, dotenv map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup lookupFunc) {
	for key, dst := range map[string]*string{
		EnvServerURL:        &cfg.ServerURL,
		EnvUsername:         &cfg.Username,
		EnvPassword:         &cfg.Password,
		EnvTargetFolderID:   &cfg.TargetFolderID,
		EnvTargetSender:     &cfg.TargetSender,
		EnvAnchorFolderName: &cfg.AnchorFolderName,
		EnvDBPath:           &cfg.DBPath,
		EnvLogLevel:         &cfg.LogLevel,
		EnvLogFile:          &cfg.LogFile,
		EnvMetricsTextfile:  &cfg.MetricsTextfile,
	} {
		// Empty values keep the default.
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
}
