// Package render sanitises and measures text before it is drawn on the
// terminal grid.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Sanitize removes escape sequences, control characters and invalid UTF-8
// from s. Non-breaking spaces become regular spaces. Entry names come from
// the filesystem and can contain anything, so every string that reaches the
// chrome goes through here.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	s = ansi.Strip(strings.ToValidUTF8(s, ""))

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\t', r == '\u00a0':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// needsSanitize reports whether s contains bytes that Sanitize would change.
func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 || b == 0x7f {
			return true
		}
		if b >= 0x80 && b <= 0x9f {
			return true
		}
		if b == 0xc2 && i+1 < len(s) && (s[i+1] == 0xa0 || s[i+1] <= 0x9f) {
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth cells, ending with "..." when
// something was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}
