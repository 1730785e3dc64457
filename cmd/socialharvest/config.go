package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"socialharvest/pkg/config"
	"socialharvest/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage socialharvest configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with every default",
	Long: `Write the default configuration to '.socialharvest.yaml' in the current
directory, or to the path given with --config.`,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. Passwords are
masked.`,
	RunE: runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and report invalid values,
missing logins and missing targets.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".socialharvest.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", path)
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		ui.PrintError("Failed to create configuration file", err)
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Add discord.server_urls and/or instagram.profiles")
	fmt.Println("2. Store logins with 'socialharvest auth login <platform>'")
	fmt.Println("3. Run 'socialharvest config validate'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err)
		return err
	}

	display := *cfg
	display.Discord.Password = maskSecret(display.Discord.Password)
	display.Instagram.Password = maskSecret(display.Instagram.Password)

	data, err := yaml.Marshal(&display)
	if err != nil {
		ui.PrintError("Failed to format configuration", err)
		return err
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err)
		return err
	}

	var warnings []string
	if len(cfg.Discord.ServerURLs) == 0 && len(cfg.Instagram.Profiles) == 0 {
		warnings = append(warnings, "no Discord server or Instagram profile configured")
	}
	if len(cfg.Discord.ServerURLs) > 0 && (cfg.Discord.Email == "" || cfg.Discord.Password == "") {
		warnings = append(warnings, "Discord login not configured, a stored login is needed")
	}
	if len(cfg.Instagram.Profiles) > 0 && (cfg.Instagram.Username == "" || cfg.Instagram.Password == "") {
		warnings = append(warnings, "Instagram login not configured, a stored login is needed")
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		ui.PrintError("Cannot create output directory", err)
		return err
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Discord servers: %d (channels: %d)\n", len(cfg.Discord.ServerURLs), len(cfg.Discord.ChannelURLs))
	fmt.Printf("  Instagram profiles: %d (posts per profile: %d)\n", len(cfg.Instagram.Profiles), cfg.Instagram.TargetPostCount)
	fmt.Printf("  Pacing: %s to %s\n", cfg.Pacing.MinDelay, cfg.Pacing.MaxDelay)
	fmt.Printf("  Output directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
