package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"socialharvest/pkg/auth"
	"socialharvest/pkg/ui"
)

var logoutAll bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored platform logins",
	Long: `Manage the Discord and Instagram logins used when the config file and
environment do not provide one.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

Never share your credentials or config files!`,
}

var loginCmd = &cobra.Command{
	Use:   "login <discord|instagram> [username]",
	Short: "Store a platform login",
	Long: `Store a Discord email or Instagram username together with its password.
The password is read without echo.`,
	Example: `  # Interactive login
  socialharvest auth login instagram

  # Login with the account name given
  socialharvest auth login discord me@example.com`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout <discord|instagram> [username]",
	Short: "Remove stored logins",
	Long: `Remove a stored login. Without a username the most recently stored
login of the platform is removed; --all removes every login of the platform.`,
	Example: `  socialharvest auth logout instagram gopher
  socialharvest auth logout discord --all`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLogout,
}

var listCmd = &cobra.Command{
	Use:   "list [discord|instagram]",
	Short: "List stored logins",
	Long:  `List stored logins with their passwords masked, newest first.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "remove every stored login of the platform")
}

func platformArg(arg string) (string, error) {
	platform := strings.ToLower(strings.TrimSpace(arg))
	if !auth.ValidPlatform(platform) {
		return "", fmt.Errorf("unknown platform %q, expected %s or %s", arg, auth.PlatformDiscord, auth.PlatformInstagram)
	}
	return platform, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	platform, err := platformArg(args[0])
	if err != nil {
		return err
	}
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		return err
	}

	auth.ShowLoginGuide(os.Stdout)
	reader := bufio.NewReader(os.Stdin)

	username := ""
	if len(args) > 1 {
		username = strings.TrimSpace(args[1])
	}
	if username == "" {
		label := "Instagram username"
		if platform == auth.PlatformDiscord {
			label = "Discord email"
		}
		fmt.Printf("%s: ", label)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if existing, _ := manager.Retrieve(platform, username); existing != nil {
		fmt.Printf("\nA login for %s already exists. Replace it? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Print("Password: ")
	password, err := readPassword(reader)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	account := &auth.Account{
		Platform:     platform,
		Username:     username,
		Password:     password,
		LastModified: time.Now(),
	}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err)
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Login saved: %s", account.Key()))
	fmt.Println("\nIt is used whenever the config file and environment leave the")
	fmt.Printf("%s login empty.\n", platform)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	platform, err := platformArg(args[0])
	if err != nil {
		return err
	}
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		return err
	}

	if logoutAll {
		if err := manager.DeleteAll(platform); err != nil {
			ui.PrintError("Failed to remove logins", err)
			return err
		}
		ui.PrintSuccess("All " + platform + " logins removed")
		return nil
	}

	username := ""
	if len(args) > 1 {
		username = args[1]
	} else {
		account, err := manager.RetrieveDefault(platform)
		if err != nil {
			ui.PrintWarning("No stored login", platform)
			return nil
		}
		username = account.Username
	}

	if err := manager.Delete(platform, username); err != nil {
		ui.PrintError("Failed to remove login", err)
		return err
	}
	ui.PrintSuccess("Login removed: " + auth.AccountKey(platform, username))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	platform := ""
	if len(args) > 0 {
		p, err := platformArg(args[0])
		if err != nil {
			return err
		}
		platform = p
	}
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		return err
	}

	accounts, err := manager.List(platform)
	if err != nil {
		ui.PrintError("Failed to list logins", err)
		return err
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored logins", "Use 'socialharvest auth login <platform>' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Logins")
	fmt.Println()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. %s\n", i+1, sanitized.Key())
		fmt.Printf("   Password: %s\n", sanitized.Password)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
	return nil
}

// readPassword reads a password without echo, falling back to a plain
// line when stdin is not a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
