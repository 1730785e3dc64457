package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"socialharvest/pkg/models"
	"socialharvest/pkg/scraper"
)

// RenderSummary renders the outcome of a run: one line per scraped server
// and profile, the abandoned targets and the files written
func RenderSummary(report *scraper.RunReport, files []string, elapsed time.Duration) string {
	var lines []string
	lines = append(lines, titleStyle.Render("RUN SUMMARY"))

	if report.Ran(scraper.PlatformDiscord) {
		lines = append(lines, sectionStyle.Render("Discord"))
		if len(report.Discord) == 0 {
			lines = append(lines, dimStyle.Render("  no server scraped"))
		}
		for _, server := range report.Discord {
			lines = append(lines, serverLine(server))
		}
	}

	if report.Ran(scraper.PlatformInstagram) {
		lines = append(lines, sectionStyle.Render("Instagram"))
		if len(report.Instagram) == 0 {
			lines = append(lines, dimStyle.Render("  no profile scraped"))
		}
		for _, profile := range report.Instagram {
			lines = append(lines, profileLine(profile))
		}
	}

	if len(report.Failures) > 0 {
		lines = append(lines, sectionStyle.Render("Failed targets"))
		for _, f := range report.Failures {
			line := fmt.Sprintf("  %s %s %s",
				errorStyle.Render("✗"),
				labelStyle.Render(f.Platform),
				f.Target,
			)
			if f.Screenshot != "" {
				line += dimStyle.Render(" • " + f.Screenshot)
			}
			lines = append(lines, line)
		}
	}

	if len(files) > 0 {
		lines = append(lines, sectionStyle.Render("Output"))
		for _, f := range files {
			lines = append(lines, "  "+valueStyle.Render(f))
		}
	}

	status := successStyle.Render("completed")
	if report.Interrupted {
		status = warningStyle.Render("interrupted")
	}
	lines = append(lines, "", fmt.Sprintf("%s %s in %s", labelStyle.Render("Run"), status, formatDuration(elapsed)))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// PrintSummary prints RenderSummary to stdout
func PrintSummary(report *scraper.RunReport, files []string, elapsed time.Duration) {
	fmt.Println(RenderSummary(report, files, elapsed))
}

func serverLine(server models.ServerInfo) string {
	channels := 0
	for _, c := range server.Channels {
		channels += len(c.Channels)
	}
	return fmt.Sprintf("  %s %s",
		successStyle.Render("✓"),
		strings.Join([]string{
			valueStyle.Render(server.ServerName),
			stat("channels", channels),
			stat("groups", len(server.Members.Groups)),
			stat("online", len(server.Members.OnlineMembers)),
			stat("last active", len(server.LastActive)),
			stat("messages", len(server.Messages)),
		}, dimStyle.Render(" • ")),
	)
}

func profileLine(profile models.Profile) string {
	fields := []string{
		valueStyle.Render("@" + profile.Username),
		labelStyle.Render("followers") + " " + profile.Followers,
	}
	if profile.Private {
		fields = append(fields, warningStyle.Render("private"))
	} else {
		fields = append(fields,
			stat("posts", len(profile.RecentPosts)),
			labelStyle.Render("avg engagement")+fmt.Sprintf(" %.2f", profile.AverageEngagement),
		)
	}
	return fmt.Sprintf("  %s %s", successStyle.Render("✓"), strings.Join(fields, dimStyle.Render(" • ")))
}

func stat(label string, n int) string {
	return labelStyle.Render(label) + fmt.Sprintf(" %d", n)
}
