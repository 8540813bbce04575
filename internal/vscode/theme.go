// Package vscode holds test doubles for the parts of the host editor API that
// extension code touches: theme affordances, resource URIs and the window's
// output channels.
package vscode

// ThemeColor references a color from the active theme by identifier.
type ThemeColor struct {
	ID string `json:"id"`
}

// NewThemeColor returns a color reference for id, e.g. "charts.green".
func NewThemeColor(id string) ThemeColor {
	return ThemeColor{ID: id}
}

// ThemeIcon references a product icon by identifier, optionally tinted.
type ThemeIcon struct {
	ID    string      `json:"id"`
	Color *ThemeColor `json:"color,omitempty"`
}

// NewThemeIcon returns an icon reference for id, e.g. "testing-passed-icon".
func NewThemeIcon(id string) ThemeIcon {
	return ThemeIcon{ID: id}
}

// NewThemeIconWithColor returns an icon reference tinted with color.
func NewThemeIconWithColor(id string, color ThemeColor) ThemeIcon {
	return ThemeIcon{ID: id, Color: &color}
}

var (
	ThemeIconFile   = NewThemeIcon("file")
	ThemeIconFolder = NewThemeIcon("folder")
)
