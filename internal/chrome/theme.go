package chrome

import "github.com/charmbracelet/lipgloss"

// Colors holds hex colours for the chrome. Empty fields keep the terminal's
// default foreground.
type Colors struct {
	Border  string
	Title   string
	Message string
}

// Theme holds the styles applied to chrome glyphs. The zero Theme draws
// plain text.
type Theme struct {
	Border  lipgloss.Style
	Title   lipgloss.Style
	Message lipgloss.Style

	styled bool
}

// NewTheme builds a Theme whose styles are rendered by r. The renderer decides
// the colour profile, so it should be bound to the real terminal output.
func NewTheme(r *lipgloss.Renderer, c Colors) Theme {
	t := Theme{
		Border:  r.NewStyle(),
		Title:   r.NewStyle().Bold(true),
		Message: r.NewStyle().Bold(true),
		styled:  true,
	}
	if c.Border != "" {
		t.Border = t.Border.Foreground(lipgloss.Color(c.Border))
	}
	if c.Title != "" {
		t.Title = t.Title.Foreground(lipgloss.Color(c.Title))
	}
	if c.Message != "" {
		t.Message = t.Message.Foreground(lipgloss.Color(c.Message))
	}
	return t
}

func (t Theme) paint(style lipgloss.Style, s string) string {
	if !t.styled || s == "" {
		return s
	}
	return style.Render(s)
}
