package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at an empty temp dir so
// no real config or .env file leaks into a test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20, cfg.Harvest.Members.MaxIterations)
	assert.Equal(t, 15, cfg.Harvest.LastActive.MaxIterations)
	assert.Equal(t, 3, cfg.Harvest.Members.StallThreshold)
	assert.Equal(t, 0.25, cfg.Harvest.Members.ScrollFraction)
	assert.Equal(t, 1500*time.Millisecond, cfg.Harvest.Members.SettleDelay)
	assert.Equal(t, 50, cfg.Harvest.Posts.TargetCount)

	assert.Equal(t, "https://canary.discord.com/login", cfg.Discord.LoginURL)
	assert.Equal(t, "discord_data.json", cfg.Discord.OutputFile)
	assert.Equal(t, "instagram_data.csv", cfg.Instagram.OutputFile)
	assert.Equal(t, 3, cfg.Instagram.HoverAttempts)

	assert.Equal(t, 3*time.Second, cfg.Pacing.MinDelay)
	assert.Equal(t, 7*time.Second, cfg.Pacing.MaxDelay)
	assert.Equal(t, DefaultUserAgent, cfg.Browser.UserAgent)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DISCORD_EMAIL", "me@example.com")
	t.Setenv("DISCORD_PASSWORD", "hunter2")
	t.Setenv("INSTAGRAM_USERNAME", "insta_me")
	t.Setenv("INSTAGRAM_PASSWORD", "secret")
	t.Setenv("TARGET_POST_COUNT", "12")
	t.Setenv("SOCIALHARVEST_DISCORD_SERVERS", "https://discord.com/channels/1/2, ,https://discord.com/channels/3/4")
	t.Setenv("SOCIALHARVEST_INSTAGRAM_PROFILES", "dualipa")
	t.Setenv("SOCIALHARVEST_HEADLESS", "false")
	t.Setenv("SOCIALHARVEST_OUTPUT_DIR", "/tmp/harvest")
	t.Setenv("SOCIALHARVEST_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "me@example.com", cfg.Discord.Email)
	assert.Equal(t, "hunter2", cfg.Discord.Password)
	assert.Equal(t, "insta_me", cfg.Instagram.Username)
	assert.Equal(t, "secret", cfg.Instagram.Password)
	assert.Equal(t, 12, cfg.Instagram.TargetPostCount)
	assert.Equal(t, []string{"https://discord.com/channels/1/2", "https://discord.com/channels/3/4"}, cfg.Discord.ServerURLs)
	assert.Equal(t, []string{"dualipa"}, cfg.Instagram.Profiles)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/tmp/harvest", cfg.Output.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidTarget(t *testing.T) {
	t.Setenv("TARGET_POST_COUNT", "many")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TARGET_POST_COUNT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero scroll fraction",
			mutate:  func(c *Config) { c.Harvest.Members.ScrollFraction = 0 },
			wantErr: "harvest.members: scroll fraction must be in (0, 1]",
		},
		{
			name:    "scroll fraction above one",
			mutate:  func(c *Config) { c.Harvest.Posts.ScrollFraction = 1.5 },
			wantErr: "harvest.posts: scroll fraction must be in (0, 1]",
		},
		{
			name:    "no iterations",
			mutate:  func(c *Config) { c.Harvest.LastActive.MaxIterations = 0 },
			wantErr: "harvest.last_active: max iterations must be positive",
		},
		{
			name:    "no stall threshold",
			mutate:  func(c *Config) { c.Harvest.Members.StallThreshold = 0 },
			wantErr: "stall threshold must be positive",
		},
		{
			name: "pacing inverted",
			mutate: func(c *Config) {
				c.Pacing.MinDelay = 5 * time.Second
				c.Pacing.MaxDelay = time.Second
			},
			wantErr: "pacing max delay must not be below min delay",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "chatty" },
			wantErr: "invalid log level",
		},
		{
			name:    "no hover attempts",
			mutate:  func(c *Config) { c.Instagram.HoverAttempts = 0 },
			wantErr: "hover attempts must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harvest.Members.MaxIterations = 0
	cfg.Output.Directory = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations must be positive")
	assert.Contains(t, err.Error(), "output directory is required")
}

func TestSaveAndLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Discord.ServerURLs = []string{"https://discord.com/channels/10/20"}
	cfg.Harvest.Members.StallThreshold = 5
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, cfg.Discord.ServerURLs, loaded.Discord.ServerURLs)
	assert.Equal(t, 5, loaded.Harvest.Members.StallThreshold)
	assert.Equal(t, cfg.Harvest.Members.SettleDelay, loaded.Harvest.Members.SettleDelay)
}

func TestLoadFromFileDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
harvest:
  members:
    max_iterations: 30
    stall_threshold: 4
    scroll_fraction: 0.5
    settle_delay: 2s
pacing:
  min_delay: 1s
  max_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))
	assert.Equal(t, 30, cfg.Harvest.Members.MaxIterations)
	assert.Equal(t, 0.5, cfg.Harvest.Members.ScrollFraction)
	assert.Equal(t, 2*time.Second, cfg.Harvest.Members.SettleDelay)
	assert.Equal(t, time.Second, cfg.Pacing.MinDelay)
	// untouched sections keep their defaults
	assert.Equal(t, 15, cfg.Harvest.LastActive.MaxIterations)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":             "./out",
		"log-level":          "warn",
		"headless":           false,
		"instagram-profiles": []string{"a", "b"},
	})

	assert.Equal(t, "./out", cfg.Output.Directory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"a", "b"}, cfg.Instagram.Profiles)
}

func TestLoad(t *testing.T) {
	t.Run("precedence order", func(t *testing.T) {
		dir := isolate(t)
		configPath := filepath.Join(dir, "config.yaml")
		content := `
discord:
  email: file@example.com
  server_urls: [https://discord.com/channels/1/2]
output:
  directory: /file/output
logging:
  level: warn
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		t.Setenv("SOCIALHARVEST_OUTPUT_DIR", "/env/output")
		t.Setenv("SOCIALHARVEST_LOG_LEVEL", "error")

		cfg, err := Load(configPath, map[string]interface{}{"log-level": "debug"})
		require.NoError(t, err)

		assert.Equal(t, "file@example.com", cfg.Discord.Email) // file only
		assert.Equal(t, "/env/output", cfg.Output.Directory)   // env over file
		assert.Equal(t, "debug", cfg.Logging.Level)            // flag over env
	})

	t.Run("post target follows profile setting", func(t *testing.T) {
		isolate(t)
		t.Setenv("TARGET_POST_COUNT", "7")

		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Harvest.Posts.TargetCount)
	})

	t.Run("validation failure", func(t *testing.T) {
		isolate(t)

		cfg, err := Load("", map[string]interface{}{"log-level": "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Nil(t, cfg)
	})

	t.Run("loads .env file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_EMAIL=dotenv@example.com\n"), 0644))

		// godotenv never overrides variables that already exist
		prev, had := os.LookupEnv("DISCORD_EMAIL")
		os.Unsetenv("DISCORD_EMAIL")
		t.Cleanup(func() {
			if had {
				os.Setenv("DISCORD_EMAIL", prev)
			} else {
				os.Unsetenv("DISCORD_EMAIL")
			}
		})

		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "dotenv@example.com", cfg.Discord.Email)
	})
}
