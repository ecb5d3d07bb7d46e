package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "-11", c.TargetFolderID)
	assert.Equal(t, "我的转存", c.AnchorFolderName)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 5*time.Second, c.RetryDelay)
	assert.Equal(t, 10, c.MaxWaitAttempts)
	assert.Equal(t, 10*time.Second, c.WaitInterval)
	assert.Equal(t, 10, c.FolderSearchDepth)
	assert.Equal(t, client.DefaultUserAgent, c.UserAgent)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoSources(t *testing.T) {
	cfg, err := LoadConfig(Sources{Fs: afero.NewMemMapFs(), EnvFile: ".env", LookupEnv: envMap(nil)})
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "cfg.json", []byte(`{
		"server_url": "http://json:3000",
		"db_path": "json.db",
		"max_retries": 5,
		"wait_interval": "250ms"
	}`), 0o600))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(
		"SERVER_URL=http://dotenv:3000\nUSERNAME=dotenv-user\nPASSWORD=dotenv-pass\nDB_PATH=dotenv.db\n"), 0o600))

	cfg, err := LoadConfig(Sources{
		Fs:       fs,
		JSONFile: "cfg.json",
		EnvFile:  ".env",
		LookupEnv: envMap(map[string]string{
			"SERVER_URL":       "http://env:3000",
			"TARGET_FOLDER_ID": "777",
			"PASSWORD":         "",
		}),
	})
	require.NoError(t, err)

	want := defaults()
	want.ServerURL = "http://env:3000"
	want.Username = "dotenv-user"
	// empty PASSWORD in the environment shadows the dotenv value but keeps the default
	want.Password = ""
	want.TargetFolderID = "777"
	want.DBPath = "dotenv.db"
	want.MaxRetries = 5
	want.WaitInterval = 250 * time.Millisecond

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_MissingJSON(t *testing.T) {
	_, err := LoadConfig(Sources{Fs: afero.NewMemMapFs(), JSONFile: "nope.json", LookupEnv: envMap(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestLoadConfig_InvalidTunable(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "cfg.json", []byte(`{"max_retries": 0}`), 0o600))

	_, err := LoadConfig(Sources{Fs: fs, JSONFile: "cfg.json", LookupEnv: envMap(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout"},
		{"retries", func(c *Config) { c.MaxRetries = 0 }, "max retries"},
		{"retry delay", func(c *Config) { c.RetryDelay = -time.Second }, "retry delay"},
		{"wait attempts", func(c *Config) { c.MaxWaitAttempts = 0 }, "max wait attempts"},
		{"wait interval", func(c *Config) { c.WaitInterval = -1 }, "wait interval"},
		{"depth", func(c *Config) { c.FolderSearchDepth = 0 }, "folder search depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
