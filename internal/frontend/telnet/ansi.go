// Package telnet is the line-oriented network edge of the dungeon server:
// a TCP acceptor, IAC filtering and ANSI styling.
package telnet

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ANSI escape codes used by the text renderer.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightRed    = "\033[91m"
	BrightYellow = "\033[93m"

	// ClearScreen erases the terminal and homes the cursor.
	ClearScreen = "\033[2J\033[H"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes all ANSI SGR sequences (ESC [ ... m) from s.
//
// Postcondition: Returns s with all \033[...m sequences removed.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			if end := strings.IndexByte(s[i+2:], 'm'); end >= 0 {
				i += end + 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Width returns the printable column width of s, ignoring ANSI sequences.
func Width(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// PadRight pads s with spaces to the given printable width. Text wider than
// width is returned unchanged.
func PadRight(s string, width int) string {
	if w := Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
