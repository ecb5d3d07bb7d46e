package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/services"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/spf13/afero"
)

// Config holds runtime settings for the sharesaver CLI.
//
// Connection and storage fields come from the environment (or a dotenv file).
// Tunables (timeouts, retry budgets, polling) come from the optional JSON file.
type Config struct {
	ServerURL        string
	Username         string
	Password         string
	TargetFolderID   string
	TargetSender     string
	AnchorFolderName string
	DBPath           string
	LogLevel         string
	LogFile          string
	MetricsTextfile  string

	RequestTimeout    time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	MaxWaitAttempts   int
	WaitInterval      time.Duration
	FolderSearchDepth int
	UserAgent         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.TargetFolderID = common.RootFolderID
	c.AnchorFolderName = services.DefaultAnchorFolderName
	c.DBPath = "data/messages.db"
	c.LogLevel = "info"

	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 3
	c.RetryDelay = 5 * time.Second
	c.MaxWaitAttempts = 10
	c.WaitInterval = 10 * time.Second
	c.FolderSearchDepth = 10
	c.UserAgent = client.DefaultUserAgent
}

// Validate rejects tunables that would make the retry loops meaningless.
func (c *Config) Validate() error {
	switch {
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	case c.MaxRetries < 1:
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	case c.RetryDelay < 0:
		return fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay)
	case c.MaxWaitAttempts < 1:
		return fmt.Errorf("max wait attempts must be at least 1, got %d", c.MaxWaitAttempts)
	case c.WaitInterval < 0:
		return fmt.Errorf("wait interval must not be negative, got %s", c.WaitInterval)
	case c.FolderSearchDepth < 1:
		return fmt.Errorf("folder search depth must be at least 1, got %d", c.FolderSearchDepth)
	}
	return nil
}

// Sources tells LoadConfig where to look.
type Sources struct {
	// Fs is used for both the JSON and the dotenv file. Defaults to the OS filesystem.
	Fs afero.Fs
	// JSONFile is optional; empty skips JSON loading.
	JSONFile string
	// EnvFile is optional; a missing file is ignored.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON file, the dotenv file and the process environment. Later sources
// take precedence over earlier ones.
func LoadConfig(src Sources) (*Config, error) {
	if src.Fs == nil {
		src.Fs = afero.NewOsFs()
	}
	if src.LookupEnv == nil {
		src.LookupEnv = os.LookupEnv
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(src.Fs, src.JSONFile, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(src.Fs, src.EnvFile)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg, chainLookup(src.LookupEnv, dotenv))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
