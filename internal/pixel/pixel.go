// Package pixel selects the terminal graphics protocol used to draw images.
package pixel

import (
	"fmt"
	"os"
	"strings"
)

// Mode is a terminal graphics protocol.
type Mode int

const (
	ITerm Mode = iota // iTerm2 inline images (OSC 1337)
	Kitty             // Kitty graphics protocol
	Sixel             // DEC Sixel
	None              // no graphics; half-block text cells
)

// Auto asks Detect to pick a mode from the environment.
const Auto = "auto"

// EnvOverride names the environment variable that forces a mode when the
// configuration leaves it on auto.
const EnvOverride = "HISOKA_PIXEL_MODE"

func (m Mode) String() string {
	switch m {
	case ITerm:
		return "iterm"
	case Kitty:
		return "kitty"
	case Sixel:
		return "sixel"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Parse converts a protocol name to a Mode. Matching ignores case and
// surrounding whitespace.
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iterm", "iterm2":
		return ITerm, nil
	case "kitty":
		return Kitty, nil
	case "sixel":
		return Sixel, nil
	case "none", "halfblock", "half-block":
		return None, nil
	default:
		return None, fmt.Errorf("unknown pixel mode %q (want auto, iterm, kitty, sixel or none)", s)
	}
}

// Detect returns the mode to use. A preference other than "" or "auto" wins,
// then the HISOKA_PIXEL_MODE variable, then what the environment says about
// the running terminal.
func Detect(preference string) (Mode, error) {
	return detect(preference, os.Getenv)
}

func detect(preference string, getenv func(string) string) (Mode, error) {
	if p := strings.TrimSpace(preference); p != "" && !strings.EqualFold(p, Auto) {
		return Parse(p)
	}
	if override := strings.TrimSpace(getenv(EnvOverride)); override != "" && !strings.EqualFold(override, Auto) {
		m, err := Parse(override)
		if err != nil {
			return None, fmt.Errorf("%s: %w", EnvOverride, err)
		}
		return m, nil
	}
	return fromEnvironment(getenv), nil
}

func fromEnvironment(getenv func(string) string) Mode {
	switch {
	case kittySupported(getenv):
		return Kitty
	case itermSupported(getenv):
		return ITerm
	case sixelSupported(getenv):
		return Sixel
	default:
		return None
	}
}

func kittySupported(getenv func(string) string) bool {
	// Contour leaks parent variables such as GHOSTTY_RESOURCES_DIR but does not
	// speak the Kitty protocol.
	if getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	term := getenv("TERM")
	if getenv("KITTY_WINDOW_ID") != "" || term == "xterm-kitty" {
		return true
	}
	if getenv("TERM_PROGRAM") == "WezTerm" || getenv("TERM_PROGRAM") == "ghostty" {
		return true
	}
	if getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	// KONSOLE_VERSION looks like "220401" for 22.04.1.
	if version := getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(term, "kitty")
}

func itermSupported(getenv func(string) string) bool {
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "mintty":
		return true
	}
	return getenv("LC_TERMINAL") == "iTerm2" || getenv("MINTTY_SHORTCUT") != ""
}

func sixelSupported(getenv func(string) string) bool {
	term := getenv("TERM")
	termProgram := getenv("TERM_PROGRAM")

	if term == "foot" || term == "foot-extra" || termProgram == "foot" {
		return true
	}
	if termProgram == "contour" || getenv("CONTOUR_PROFILE") != "" {
		return true
	}
	if getenv("WT_SESSION") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(term), "sixel")
}
