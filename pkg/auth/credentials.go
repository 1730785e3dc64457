package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Platforms that accept stored credentials
const (
	PlatformDiscord   = "discord"
	PlatformInstagram = "instagram"
)

// Account is the login of one platform account. Discord accounts use the
// email as Username.
type Account struct {
	Platform     string    `json:"platform"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	LastModified time.Time `json:"last_modified"`
}

// Key identifies an account across platforms
func (a *Account) Key() string {
	return AccountKey(a.Platform, a.Username)
}

// AccountKey builds the <platform>:<username> storage key
func AccountKey(platform, username string) string {
	return platform + ":" + username
}

// ValidPlatform reports whether platform accepts stored credentials
func ValidPlatform(platform string) bool {
	return platform == PlatformDiscord || platform == PlatformInstagram
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given account
	Store(account *Account) error

	// Retrieve gets credentials for one platform account
	Retrieve(platform, username string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for one platform account
	Delete(platform, username string) error

	// Exists checks if credentials exist for a platform account
	Exists(platform, username string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager backed by the system keychain
// when available, the encrypted file, and the environment
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over explicit stores, tried in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account == nil {
		return ErrInvalidCredentials
	}
	if !ValidPlatform(account.Platform) {
		return fmt.Errorf("unknown platform %q", account.Platform)
	}
	if account.Username == "" {
		return errors.New("username is required")
	}
	if account.Password == "" {
		return errors.New("password is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(platform, username string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(platform, username); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, AccountKey(platform, username))
}

// RetrieveDefault gets the most recently stored account of a platform
func (m *Manager) RetrieveDefault(platform string) (*Account, error) {
	accounts, err := m.List(platform)
	if err == nil && len(accounts) > 0 {
		return accounts[0], nil
	}
	return nil, fmt.Errorf("%w for %s", ErrCredentialsNotFound, platform)
}

// Resolve completes a login taken from configuration with stored
// credentials. Explicit values always win.
func (m *Manager) Resolve(platform, username, password string) (string, string, error) {
	if username != "" && password != "" {
		return username, password, nil
	}

	var (
		account *Account
		err     error
	)
	if username != "" {
		account, err = m.Retrieve(platform, username)
	} else {
		account, err = m.RetrieveDefault(platform)
	}
	if err != nil {
		return "", "", err
	}
	return account.Username, account.Password, nil
}

// List returns the accounts of all stores, newest first. An empty platform
// lists every platform.
func (m *Manager) List(platform string) ([]*Account, error) {
	accountMap := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if platform != "" && account.Platform != platform {
				continue
			}
			// Use the most recently modified version
			if existing, ok := accountMap[account.Key()]; !ok || account.LastModified.After(existing.LastModified) {
				accountMap[account.Key()] = account
			}
		}
	}

	result := make([]*Account, 0, len(accountMap))
	for _, account := range accountMap {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].LastModified.After(result[j].LastModified)
		}
		return result[i].Key() < result[j].Key()
	})

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(platform, username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(platform, username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil && !errors.Is(lastErr, ErrCredentialsNotFound) && !errors.Is(lastErr, ErrStoreUnavailable) {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, AccountKey(platform, username))
	}

	return nil
}

// DeleteAll removes all stored credentials of a platform, or of every
// platform when platform is empty
func (m *Manager) DeleteAll(platform string) error {
	accounts, err := m.List(platform)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		_ = m.Delete(account.Platform, account.Username) // Ignore individual errors
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), appName)
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", appName)
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

const appName = "socialharvest"

// SanitizeAccount creates a copy of the account with the password masked
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}

	return &Account{
		Platform:     account.Platform,
		Username:     account.Username,
		Password:     maskString(account.Password),
		LastModified: account.LastModified,
	}
}

// maskString masks all but the first and last 2 characters of a string
func maskString(s string) string {
	if len(s) <= 6 {
		return "********"
	}
	return s[:2] + strings.Repeat("*", 6) + s[len(s)-2:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
