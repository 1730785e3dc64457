package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const ASCIILogo = `
    ╔══════════════════════════════════════════════════════════════╗
    ║  ░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█░░░█░█░█▀█░█▀▄░█░█░█▀▀░█▀▀░▀█▀         ║
    ║  ░▀▀█░█░█░█░░░░█░░█▀█░█░░░█▀█░█▀█░█▀▄░▀▄▀░█▀▀░▀▀█░░█░         ║
    ║  ░▀▀▀░▀▀▀░▀▀▀░▀▀▀░▀░▀░▀▀▀░▀░▀░▀░▀░▀░▀░░▀░░▀▀▀░▀▀▀░░▀░         ║
    ║        DISCORD + INSTAGRAM LIST HARVESTER                    ║
    ╚══════════════════════════════════════════════════════════════╝
`

// Inline colours for single-line output. They render plain text when
// the terminal has no colour support.
var (
	Cyan    = paint(labelStyle)
	Yellow  = paint(valueStyle)
	Red     = paint(fg(colorBad))
	Green   = paint(fg(colorGood))
	Magenta = paint(fg(colorHeader))
	Dim     = paint(dimStyle)
)

func paint(style lipgloss.Style) func(string) string {
	return func(text string) string { return style.Render(text) }
}

func PrintLogo() {
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints msg in red, with ": cause" appended when a cause is
// passed
func PrintError(msg string, cause ...interface{}) {
	fmt.Println(Red(withCause(msg, cause)))
}

func PrintWarning(msg string, cause ...interface{}) {
	fmt.Println(Yellow(withCause(msg, cause)))
}

func PrintSuccess(msg string) { fmt.Println(Green(msg)) }

func PrintHighlight(msg string) { fmt.Println(Magenta(msg)) }

// PrintInfo prints a "label: value" line
func PrintInfo(label, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

func withCause(msg string, cause []interface{}) string {
	if len(cause) == 0 || cause[0] == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, cause[0])
}
