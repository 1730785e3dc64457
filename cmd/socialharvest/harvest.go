package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"socialharvest/pkg/auth"
	"socialharvest/pkg/browser"
	"socialharvest/pkg/config"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/output"
	"socialharvest/pkg/scraper"
	"socialharvest/pkg/ui"
)

var (
	outputDir        string
	headless         bool
	browserBin       string
	discordServers   []string
	discordChannels  []string
	instagramTargets []string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	f.BoolVar(&headless, "headless", true, "run the browser without a window")
	f.StringVar(&browserBin, "browser-bin", "", "browser executable (default: downloaded Chromium)")
	f.StringSliceVar(&discordServers, "discord-server", nil, "Discord server URL to scrape (repeatable)")
	f.StringSliceVar(&discordChannels, "discord-channel", nil, "Discord channel URL whose messages are read (repeatable)")
	f.StringSliceVar(&instagramTargets, "instagram-profile", nil, "Instagram username to scrape (repeatable)")
}

// commandFlags collects the flags the user actually set
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if cmd.Flags().Changed("notifications") {
		flags["notifications"] = notifications
	}
	if len(discordServers) > 0 {
		flags["discord-servers"] = discordServers
	}
	if len(discordChannels) > 0 {
		flags["discord-channels"] = discordChannels
	}
	if len(instagramTargets) > 0 {
		flags["instagram-profiles"] = instagramTargets
	}
	return flags
}

func runHarvest(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err)
		return err
	}
	if browserBin != "" {
		cfg.Browser.Bin = browserBin
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err)
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("socialharvest starting")

	if len(cfg.Discord.ServerURLs) == 0 && len(cfg.Instagram.Profiles) == 0 {
		ui.PrintWarning("Nothing to do", "no Discord server or Instagram profile configured")
		fmt.Println("\nAdd targets to the config file or pass them as flags:")
		fmt.Println("  socialharvest --discord-server https://discord.com/channels/<server>/<channel>")
		fmt.Println("  socialharvest --instagram-profile <username>")
		return nil
	}

	opts := scraper.Options{
		Observer: ui.NewProgressDisplay(verbose),
		Logger:   log,
	}
	if manager, err := auth.NewManager(); err != nil {
		log.WithError(err).Warn("Credential store unavailable, using configured logins only")
	} else {
		opts.Credentials = manager
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the browser outlives ctx so that an interrupted run can finish the
	// harvest in progress
	session, err := browser.Launch(context.WithoutCancel(ctx), cfg.Browser, log)
	if err != nil {
		ui.PrintError("Failed to launch browser", err)
		return err
	}
	logger.LogComponentStart("browser", map[string]interface{}{
		"headless": cfg.Browser.Headless,
		"bin":      cfg.Browser.Bin,
	})
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Browser did not close cleanly")
		}
		logger.LogComponentStop("browser", "run finished")
	}()

	start := time.Now()
	report, runErr := scraper.New(cfg, session, opts).Run(ctx)

	writer, err := output.NewWriter(cfg.Output.Directory)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err)
		return err
	}
	files, saveErr := report.Save(writer, cfg)

	ui.PrintSummary(report, files, time.Since(start))
	if cfg.Notifications.Enabled {
		ui.NewNotifier().RunFinished(report, runErr)
	}

	if runErr != nil {
		ui.PrintError("Run aborted", runErr)
		return runErr
	}
	if saveErr != nil {
		ui.PrintError("Failed to write results", saveErr)
		return saveErr
	}
	return nil
}
