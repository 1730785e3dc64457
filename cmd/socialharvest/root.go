package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"socialharvest/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	notifications bool
	verbose       bool
)

// rootCmd runs a harvest when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "socialharvest",
	Short: "Harvest Discord servers and Instagram profiles through a real browser",
	Long: `socialharvest logs into Discord and Instagram with a real browser and
collects what the pages show:

  Discord    server name, channel categories, member groups, online members,
             member presence and the messages of selected channels
  Instagram  profile header, bio, counts and the engagement of recent posts

Both platforms render their long lists as virtualized scroll regions; the
harvester scrolls them in small steps until no new record shows up.

Targets come from the config file, the environment or flags. Results are
written to discord_data.json and instagram_data.csv in the output directory.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintLogo()
		}
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHarvest(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.socialharvest.yaml or ~/.config/socialharvest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "send a desktop notification when the run ends")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every harvest pass")

	rootCmd.SetVersionTemplate(`socialharvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
