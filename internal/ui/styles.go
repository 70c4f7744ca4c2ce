package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/sloclass/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Code      lipgloss.Style
	Directive lipgloss.Style
	Selected  lipgloss.Style
	Cursor    lipgloss.Style
	Dim       lipgloss.Style

	// Preview styles
	PreviewPath lipgloss.Style
	PreviewText lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Code:        lipgloss.NewStyle(),
		Directive:   lipgloss.NewStyle(),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewPath: lipgloss.NewStyle().Bold(true),
		PreviewText: lipgloss.NewStyle(),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:  lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	pathColor := ParseANSIColor(config.GetColorPath())
	codeColor := ParseANSIColor(config.GetColorCode())
	directiveColor := ParseANSIColor(config.GetColorDirective())
	dimColor := ParseANSIColor(config.GetColorDim())
	borderColor := lipgloss.Color(config.GetColorBorder())
	cursorColor := lipgloss.Color(config.GetColorCursor())
	selectedBg := lipgloss.Color(config.GetColorSelected())

	// List view styles
	s.Code = lipgloss.NewStyle().Foreground(codeColor)
	s.Directive = lipgloss.NewStyle().Foreground(directiveColor)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)

	// Preview styles
	s.PreviewPath = lipgloss.NewStyle().Bold(true).Foreground(pathColor)
	s.PreviewText = lipgloss.NewStyle()

	// Chrome styles
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.SelectedBg = selectedBg
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// ParseANSIColor converts ANSI color codes to lipgloss colors
func ParseANSIColor(code string) lipgloss.Color {
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

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
