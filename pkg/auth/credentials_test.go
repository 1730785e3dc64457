package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	account := &Account{
		Platform: PlatformDiscord,
		Username: "me@example.com",
		Password: "correct-horse",
	}
	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	retrieved, err := manager.Retrieve(PlatformDiscord, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "correct-horse", retrieved.Password)

	_, err = manager.Retrieve(PlatformInstagram, "me@example.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	accounts, err := manager.List("")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, manager.Delete(PlatformDiscord, "me@example.com"))
	assert.Zero(t, mockStore.Count())

	err = manager.Delete(PlatformDiscord, "me@example.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	tests := []struct {
		name    string
		account *Account
	}{
		{"nil", nil},
		{"unknown platform", &Account{Platform: "myspace", Username: "a", Password: "b"}},
		{"no username", &Account{Platform: PlatformInstagram, Password: "b"}},
		{"no password", &Account{Platform: PlatformInstagram, Username: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, manager.Store(tt.account))
		})
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = ErrStoreUnavailable
	working := NewMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Store(&Account{Platform: PlatformInstagram, Username: "gopher", Password: "pw"}))

	assert.Zero(t, broken.Count())
	assert.True(t, working.Exists(PlatformInstagram, "gopher"))
}

func TestManagerListNewestFirst(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Store(&Account{Platform: PlatformInstagram, Username: "old", Password: "x", LastModified: base}))
	require.NoError(t, store.Store(&Account{Platform: PlatformInstagram, Username: "new", Password: "y", LastModified: base.Add(time.Hour)}))
	require.NoError(t, store.Store(&Account{Platform: PlatformDiscord, Username: "d@example.com", Password: "z", LastModified: base}))

	accounts, err := manager.List(PlatformInstagram)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "new", accounts[0].Username)

	def, err := manager.RetrieveDefault(PlatformInstagram)
	require.NoError(t, err)
	assert.Equal(t, "new", def.Username)

	require.NoError(t, manager.DeleteAll(PlatformInstagram))
	assert.Equal(t, 1, store.Count())
}

func TestManagerResolve(t *testing.T) {
	manager, store := NewMockManager()
	require.NoError(t, store.Store(&Account{Platform: PlatformInstagram, Username: "gopher", Password: "stored"}))

	user, pass, err := manager.Resolve(PlatformInstagram, "cli", "given")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli", "given"}, []string{user, pass})

	user, pass, err = manager.Resolve(PlatformInstagram, "gopher", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"gopher", "stored"}, []string{user, pass})

	user, pass, err = manager.Resolve(PlatformInstagram, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"gopher", "stored"}, []string{user, pass})

	_, _, err = manager.Resolve(PlatformDiscord, "", "")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{Platform: PlatformDiscord, Username: "me@example.com", Password: "supersecret"}

	sanitized := SanitizeAccount(account)

	assert.Equal(t, "me@example.com", sanitized.Username)
	assert.Equal(t, "su******et", sanitized.Password)
	assert.Equal(t, "********", SanitizeAccount(&Account{Password: "short"}).Password)
	assert.Nil(t, SanitizeAccount(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(PassphraseEnv, "test_passphrase_123")
	file := filepath.Join(t.TempDir(), "creds.enc")

	store, err := NewEncryptedFileStore(file)
	require.NoError(t, err)

	account := &Account{Platform: PlatformInstagram, Username: "gopher", Password: "tunnel"}
	require.NoError(t, store.Store(account))

	retrieved, err := store.Retrieve(PlatformInstagram, "gopher")
	require.NoError(t, err)
	assert.Equal(t, "tunnel", retrieved.Password)
	assert.True(t, store.Exists(PlatformInstagram, "gopher"))
	assert.False(t, store.Exists(PlatformDiscord, "gopher"))

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "tunnel"), "password stored in clear text")

	t.Setenv(PassphraseEnv, "another_passphrase")
	other, err := NewEncryptedFileStore(file)
	require.NoError(t, err)
	_, err = other.Retrieve(PlatformInstagram, "gopher")
	assert.Error(t, err)

	require.NoError(t, store.Delete(PlatformInstagram, "gopher"))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err), "file removed with its last account")
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("DISCORD_EMAIL", "env@example.com")
	t.Setenv("DISCORD_PASSWORD", "env-pass")
	t.Setenv("INSTAGRAM_USERNAME", "")
	t.Setenv("INSTAGRAM_PASSWORD", "")

	store := NewEnvironmentStore()

	account, err := store.Retrieve(PlatformDiscord, "")
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", account.Username)
	assert.Equal(t, "env-pass", account.Password)

	_, err = store.Retrieve(PlatformDiscord, "someone@else.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(PlatformInstagram, ""))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(PlatformDiscord, "env@example.com"), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Account{Platform: PlatformDiscord, Username: "me@example.com", Password: "a"}))
	require.NoError(t, store.Store(&Account{Platform: PlatformInstagram, Username: "gopher", Password: "b"}))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	got, err := store.Retrieve(PlatformInstagram, "gopher")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Password)

	require.NoError(t, store.Delete(PlatformInstagram, "gopher"))
	assert.False(t, store.Exists(PlatformInstagram, "gopher"))

	accounts, err = store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "discord:me@example.com", accounts[0].Key())

	err = store.Delete(PlatformInstagram, "gopher")
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
}

func TestMockStoreErrorInjection(t *testing.T) {
	store := NewMockStore()
	store.ListError = errors.New("list failed")
	manager := NewManagerWithStores(store)

	accounts, err := manager.List("")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
