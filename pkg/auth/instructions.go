package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowLoginGuide explains which login each platform needs and where it
// ends up
func ShowLoginGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "STORING PLATFORM CREDENTIALS")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "socialharvest logs in through a real browser, so it needs the same")
	fmt.Fprintln(w, "login you would type yourself:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  discord    account email and password")
	fmt.Fprintln(w, "  instagram  username and password")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Credentials are saved in the system keychain when one is available,")
	fmt.Fprintln(w, "otherwise in an encrypted file in the config directory. Set")
	fmt.Fprintf(w, "%s to choose the file passphrase yourself.\n", PassphraseEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Values from the config file or from DISCORD_EMAIL, DISCORD_PASSWORD,")
	fmt.Fprintln(w, "INSTAGRAM_USERNAME and INSTAGRAM_PASSWORD take precedence.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use a secondary account: both platforms may lock accounts that")
	fmt.Fprintln(w, "look automated.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
