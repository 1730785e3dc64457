package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for a harvest run
type Config struct {
	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Per use-case harvest limits
	Harvest HarvestSettings `yaml:"harvest" json:"harvest"`

	// Platform targets and credentials
	Discord   DiscordConfig   `yaml:"discord" json:"discord"`
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Inter-target courtesy delay
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig holds the browser launch and wait settings
type BrowserConfig struct {
	Headless      bool          `yaml:"headless" json:"headless"`
	Bin           string        `yaml:"bin" json:"bin"`
	NoSandbox     bool          `yaml:"no_sandbox" json:"no_sandbox"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	Lang          string        `yaml:"lang" json:"lang"`
	WaitTimeout   time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	ScreenshotDir string        `yaml:"screenshot_dir" json:"screenshot_dir"`
	// Minimum spacing between two page navigations
	NavigateInterval time.Duration `yaml:"navigate_interval" json:"navigate_interval"`
}

// HarvestConfig bounds one virtualized list harvest.
// TargetCount of 0 means no target.
type HarvestConfig struct {
	TargetCount    int           `yaml:"target_count" json:"target_count"`
	MaxIterations  int           `yaml:"max_iterations" json:"max_iterations"`
	StallThreshold int           `yaml:"stall_threshold" json:"stall_threshold"`
	ScrollFraction float64       `yaml:"scroll_fraction" json:"scroll_fraction"`
	SettleDelay    time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

// HarvestSettings groups the harvest limits of each use case
type HarvestSettings struct {
	Members    HarvestConfig `yaml:"members" json:"members"`
	LastActive HarvestConfig `yaml:"last_active" json:"last_active"`
	Posts      HarvestConfig `yaml:"posts" json:"posts"`
}

// DiscordConfig holds Discord credentials and targets
type DiscordConfig struct {
	Email       string   `yaml:"email" json:"email"`
	Password    string   `yaml:"password" json:"-"`
	LoginURL    string   `yaml:"login_url" json:"login_url"`
	ServerURLs  []string `yaml:"server_urls" json:"server_urls"`
	ChannelURLs []string `yaml:"channel_urls" json:"channel_urls"`
	OutputFile  string   `yaml:"output_file" json:"output_file"`
}

// InstagramConfig holds Instagram credentials and targets
type InstagramConfig struct {
	Username        string   `yaml:"username" json:"username"`
	Password        string   `yaml:"password" json:"-"`
	LoginURL        string   `yaml:"login_url" json:"login_url"`
	Profiles        []string `yaml:"profiles" json:"profiles"`
	TargetPostCount int      `yaml:"target_post_count" json:"target_post_count"`
	HoverAttempts   int      `yaml:"hover_attempts" json:"hover_attempts"`
	OutputFile      string   `yaml:"output_file" json:"output_file"`
}

// PacingConfig bounds the randomized delay between targets
type PacingConfig struct {
	MinDelay time.Duration `yaml:"min_delay" json:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay" json:"max_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultUserAgent is the desktop Chrome UA presented to both platforms
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// DefaultHarvestConfig returns the limits shared by most list harvests
func DefaultHarvestConfig() HarvestConfig {
	return HarvestConfig{
		MaxIterations:  20,
		StallThreshold: 3,
		ScrollFraction: 0.25,
		SettleDelay:    1500 * time.Millisecond,
	}
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	lastActive := DefaultHarvestConfig()
	lastActive.MaxIterations = 15

	posts := DefaultHarvestConfig()
	posts.TargetCount = 50
	posts.SettleDelay = 2 * time.Second

	return &Config{
		Browser: BrowserConfig{
			Headless:         true,
			NoSandbox:        true,
			UserAgent:        DefaultUserAgent,
			Lang:             "en-US",
			WaitTimeout:      20 * time.Second,
			ScreenshotDir:    "./screenshots",
			NavigateInterval: time.Second,
		},
		Harvest: HarvestSettings{
			Members:    DefaultHarvestConfig(),
			LastActive: lastActive,
			Posts:      posts,
		},
		Discord: DiscordConfig{
			LoginURL:   "https://canary.discord.com/login",
			OutputFile: "discord_data.json",
		},
		Instagram: InstagramConfig{
			LoginURL:        "https://www.instagram.com/accounts/login/",
			TargetPostCount: 50,
			HoverAttempts:   3,
			OutputFile:      "instagram_data.csv",
		},
		Pacing: PacingConfig{
			MinDelay: 3 * time.Second,
			MaxDelay: 7 * time.Second,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Platform credentials keep the names the scrapers have always read
	if email := os.Getenv("DISCORD_EMAIL"); email != "" {
		c.Discord.Email = email
	}
	if password := os.Getenv("DISCORD_PASSWORD"); password != "" {
		c.Discord.Password = password
	}
	if username := os.Getenv("INSTAGRAM_USERNAME"); username != "" {
		c.Instagram.Username = username
	}
	if password := os.Getenv("INSTAGRAM_PASSWORD"); password != "" {
		c.Instagram.Password = password
	}
	if target := os.Getenv("TARGET_POST_COUNT"); target != "" {
		val, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid TARGET_POST_COUNT %q: %w", target, err)
		}
		if val > 0 {
			c.Instagram.TargetPostCount = val
		}
	}

	// Targets
	if servers := os.Getenv("SOCIALHARVEST_DISCORD_SERVERS"); servers != "" {
		c.Discord.ServerURLs = splitList(servers)
	}
	if channels := os.Getenv("SOCIALHARVEST_DISCORD_CHANNELS"); channels != "" {
		c.Discord.ChannelURLs = splitList(channels)
	}
	if profiles := os.Getenv("SOCIALHARVEST_INSTAGRAM_PROFILES"); profiles != "" {
		c.Instagram.Profiles = splitList(profiles)
	}

	// Browser
	if headless := os.Getenv("SOCIALHARVEST_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if bin := os.Getenv("SOCIALHARVEST_BROWSER_BIN"); bin != "" {
		c.Browser.Bin = bin
	}

	// Output directory
	if outputDir := os.Getenv("SOCIALHARVEST_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	// Notifications
	if notifEnabled := os.Getenv("SOCIALHARVEST_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("SOCIALHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// splitList splits a comma-separated list and drops empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".socialharvest.yaml",
		".socialharvest.yml",
		filepath.Join(home, ".config", "socialharvest", "config.yaml"),
		filepath.Join(home, ".config", "socialharvest", "config.yml"),
		filepath.Join(home, ".socialharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	harvests := map[string]HarvestConfig{
		"members":     c.Harvest.Members,
		"last_active": c.Harvest.LastActive,
		"posts":       c.Harvest.Posts,
	}
	for _, name := range []string{"members", "last_active", "posts"} {
		if err := harvests[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("harvest.%s: %w", name, err))
		}
	}

	if c.Browser.WaitTimeout <= 0 {
		errs = append(errs, errors.New("browser wait timeout must be positive"))
	}
	if c.Browser.NavigateInterval < 0 {
		errs = append(errs, errors.New("browser navigate interval cannot be negative"))
	}

	if c.Instagram.TargetPostCount < 0 {
		errs = append(errs, errors.New("target post count cannot be negative"))
	}
	if c.Instagram.HoverAttempts <= 0 {
		errs = append(errs, errors.New("hover attempts must be positive"))
	}

	if c.Pacing.MinDelay < 0 {
		errs = append(errs, errors.New("pacing min delay cannot be negative"))
	}
	if c.Pacing.MaxDelay < c.Pacing.MinDelay {
		errs = append(errs, errors.New("pacing max delay must not be below min delay"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks the limits of a single harvest
func (h HarvestConfig) Validate() error {
	var errs []error

	if h.TargetCount < 0 {
		errs = append(errs, errors.New("target count cannot be negative"))
	}
	if h.MaxIterations <= 0 {
		errs = append(errs, errors.New("max iterations must be positive"))
	}
	if h.StallThreshold <= 0 {
		errs = append(errs, errors.New("stall threshold must be positive"))
	}
	if h.ScrollFraction <= 0 || h.ScrollFraction > 1 {
		errs = append(errs, errors.New("scroll fraction must be in (0, 1]"))
	}
	if h.SettleDelay < 0 {
		errs = append(errs, errors.New("settle delay cannot be negative"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if notifications, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = notifications
	}
	if servers, ok := flags["discord-servers"].([]string); ok && len(servers) > 0 {
		c.Discord.ServerURLs = servers
	}
	if channels, ok := flags["discord-channels"].([]string); ok && len(channels) > 0 {
		c.Discord.ChannelURLs = channels
	}
	if profiles, ok := flags["instagram-profiles"].([]string); ok && len(profiles) > 0 {
		c.Instagram.Profiles = profiles
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".socialharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	// Instagram's post harvest target follows the profile setting
	config.Harvest.Posts.TargetCount = config.Instagram.TargetPostCount

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
