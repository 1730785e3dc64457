package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"socialharvest/pkg/scraper"
)

// NotificationSender shows a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// commandSender shows a notification by running the command it builds
type commandSender func(title, message string) *exec.Cmd

func (c commandSender) Send(title, message string) error {
	return c(title, message).Run()
}

func notifySend(title, message string) *exec.Cmd {
	return exec.Command("notify-send", "--app-name=socialharvest", title, message)
}

func osascript(title, message string) *exec.Cmd {
	script := fmt.Sprintf("display notification %s with title %s", appleQuote(message), appleQuote(title))
	return exec.Command("osascript", "-e", script)
}

func appleQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

const toastScript = `[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastTemplateType]::ToastText02
$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent($template)
$text = $xml.GetElementsByTagName("text")
$text.Item(0).AppendChild($xml.CreateTextNode($env:SH_TITLE)) | Out-Null
$text.Item(1).AppendChild($xml.CreateTextNode($env:SH_MESSAGE)) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("socialharvest").Show($toast)`

// powershellToast passes title and message through the environment so
// neither needs escaping
func powershellToast(title, message string) *exec.Cmd {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", toastScript)
	cmd.Env = append(os.Environ(), "SH_TITLE="+title, "SH_MESSAGE="+message)
	return cmd
}

// Notifier prints run outcomes and mirrors them as desktop notifications
type Notifier struct {
	sender NotificationSender
	out    io.Writer
}

// NewNotifier picks the notification command of the current OS. On other
// systems it only prints.
func NewNotifier() *Notifier {
	n := &Notifier{out: os.Stdout}
	switch runtime.GOOS {
	case "linux":
		n.sender = commandSender(notifySend)
	case "darwin":
		n.sender = commandSender(osascript)
	case "windows":
		n.sender = commandSender(powershellToast)
	}
	return n
}

func NewNotifierWithSender(sender NotificationSender, out io.Writer) *Notifier {
	return &Notifier{sender: sender, out: out}
}

func (n *Notifier) SendNotification(title, message string) {
	n.notify(Cyan(title), Yellow(message), title, message)
}

func (n *Notifier) SendError(title, message string) {
	n.notify(Red(title), Red(message), title, message)
}

func (n *Notifier) SendSuccess(title, message string) {
	n.notify(Green(title), Green(message), title, message)
}

// notify prints the styled line, then sends the plain one. A failed
// send is ignored.
func (n *Notifier) notify(styledTitle, styledMessage, title, message string) {
	fmt.Fprintf(n.out, "\n%s: %s\n", styledTitle, styledMessage)
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}

// RunFinished reports how a run ended. err is the error that stopped the
// run, if any.
func (n *Notifier) RunFinished(report *scraper.RunReport, err error) {
	switch {
	case err != nil:
		n.SendError("Harvest failed", err.Error())
	case report.Interrupted:
		n.SendNotification("Harvest interrupted", runCounts(report))
	case len(report.Failures) > 0:
		n.SendNotification("Harvest finished with failures", runCounts(report))
	default:
		n.SendSuccess("Harvest complete", runCounts(report))
	}
}

func runCounts(report *scraper.RunReport) string {
	return fmt.Sprintf("%d servers, %d profiles, %d failed",
		len(report.Discord), len(report.Instagram), len(report.Failures))
}
