package scraper

import (
	"fmt"

	"socialharvest/pkg/config"
	"socialharvest/pkg/models"
	"socialharvest/pkg/output"
)

// TargetFailure is a server or profile that was abandoned
type TargetFailure struct {
	Platform   string
	Target     string
	Screenshot string
	Err        error
}

// RunReport accumulates the results of a run
type RunReport struct {
	Discord   []models.ServerInfo
	Instagram []models.Profile
	Failures  []TargetFailure

	// Platforms lists the platforms that logged in, in run order
	Platforms []string
	// Interrupted is set when the run stopped at a target boundary
	// because its context was cancelled
	Interrupted bool
}

func newReport() *RunReport {
	return &RunReport{
		Discord:   []models.ServerInfo{},
		Instagram: []models.Profile{},
		Failures:  []TargetFailure{},
	}
}

// Ran reports whether platform logged in during the run
func (r *RunReport) Ran(platform string) bool {
	for _, p := range r.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Save writes one output file per platform that ran
func (r *RunReport) Save(w *output.Writer, cfg *config.Config) ([]string, error) {
	var paths []string
	if r.Ran(PlatformDiscord) {
		path, err := w.WriteDiscord(cfg.Discord.OutputFile, r.Discord)
		if err != nil {
			return paths, fmt.Errorf("failed to save discord data: %w", err)
		}
		paths = append(paths, path)
	}
	if r.Ran(PlatformInstagram) {
		path, err := w.WriteInstagram(cfg.Instagram.OutputFile, r.Instagram)
		if err != nil {
			return paths, fmt.Errorf("failed to save instagram data: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
