package scraper

import (
	"socialharvest/pkg/discord"
	"socialharvest/pkg/harvest"
	"socialharvest/pkg/instagram"
)

// Page is a browser tab able to drive both platforms
type Page interface {
	discord.Page
	instagram.Page
}

// CredentialResolver completes configured logins with stored credentials
type CredentialResolver interface {
	Resolve(platform, username, password string) (string, string, error)
}

// Observer follows a run as it happens, usually the terminal UI
type Observer interface {
	PlatformStarted(platform string, targets int)
	TargetStarted(platform, target string)
	TargetFinished(platform, target string, err error)
	HarvestProgress(p harvest.Progress)
}

type nopObserver struct{}

func (nopObserver) PlatformStarted(string, int)          {}
func (nopObserver) TargetStarted(string, string)         {}
func (nopObserver) TargetFinished(string, string, error) {}
func (nopObserver) HarvestProgress(harvest.Progress)     {}
