package auth

import (
	"os"
	"strings"
	"time"
)

// EnvironmentStore implements CredentialStore over the DISCORD_EMAIL,
// DISCORD_PASSWORD, INSTAGRAM_USERNAME and INSTAGRAM_PASSWORD variables.
// It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func envNames(platform string) (user, pass string) {
	prefix := strings.ToUpper(platform)
	if platform == PlatformDiscord {
		return prefix + "_EMAIL", prefix + "_PASSWORD"
	}
	return prefix + "_USERNAME", prefix + "_PASSWORD"
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve reads a platform login from the environment. An empty username
// accepts whatever account is configured.
func (e *EnvironmentStore) Retrieve(platform, username string) (*Account, error) {
	if !ValidPlatform(platform) {
		return nil, ErrInvalidCredentials
	}
	userVar, passVar := envNames(platform)
	user, pass := os.Getenv(userVar), os.Getenv(passVar)

	if user == "" || pass == "" {
		return nil, ErrCredentialsNotFound
	}
	if username != "" && username != user {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Platform:     platform,
		Username:     user,
		Password:     pass,
		LastModified: time.Now(),
	}, nil
}

// List returns the accounts configured in the environment
func (e *EnvironmentStore) List() ([]*Account, error) {
	accounts := []*Account{}
	for _, platform := range []string{PlatformDiscord, PlatformInstagram} {
		if account, err := e.Retrieve(platform, ""); err == nil {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(platform, username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(platform, username string) bool {
	account, err := e.Retrieve(platform, username)
	return err == nil && account != nil
}
