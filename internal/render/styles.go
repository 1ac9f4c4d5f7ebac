package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/xmldoc/internal/config"
)

// StyleManager encapsulates the styles of the report and the browser
type StyleManager struct {
	r *lipgloss.Renderer

	// Report styles
	Method lipgloss.Style
	Label  lipgloss.Style
	Error  lipgloss.Style

	// Browser styles
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style
	Divider  lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles bound to r
func DefaultStyles(r *lipgloss.Renderer) *StyleManager {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &StyleManager{
		r:        r,
		Method:   r.NewStyle().Bold(true),
		Label:    r.NewStyle().Bold(true),
		Error:    r.NewStyle().Bold(true),
		Selected: r.NewStyle().Background(lipgloss.Color("236")),
		Cursor:   r.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:      r.NewStyle().Foreground(lipgloss.Color("241")),
		Divider:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	s.Method = s.r.NewStyle().Bold(true).Foreground(parseANSIColor(config.GetColorMethod()))
	s.Label = s.r.NewStyle().Foreground(parseANSIColor(config.GetColorLabel()))
	s.Error = s.r.NewStyle().Bold(true).Foreground(parseANSIColor(config.GetColorError()))
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}
