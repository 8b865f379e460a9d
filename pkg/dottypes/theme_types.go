// Package dottypes defines theme-related data structures for dotshell's prompt
// rendering. This file contains the types for representing theme descriptors
// loaded from YAML.
package dottypes

// ThemeConfig represents a theme descriptor loaded from YAML.
// It defines semantic styles and the ordered prompt segments.
type ThemeConfig struct {
	// Name is the theme identifier (e.g., "default", "dark", "light", "plain")
	Name string `yaml:"name" json:"name"`

	// Description provides a brief description of the theme
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Styles contains the color and style definitions for semantic elements
	Styles ThemeStyles `yaml:"styles" json:"styles"`

	// Segments is the ordered list of prompt segments
	Segments []SegmentConfig `yaml:"segments" json:"segments"`
}

// ThemeStyles defines the styling configuration for semantic elements.
// Each style can specify foreground color, background color, and decorations.
type ThemeStyles struct {
	// Command style for command names and alias expansions
	Command StyleConfig `yaml:"command" json:"command"`

	// Variable style for variable names and references
	Variable StyleConfig `yaml:"variable" json:"variable"`

	// Success style for success messages and zero exit codes
	Success StyleConfig `yaml:"success" json:"success"`

	// Error style for error messages and non-zero exit codes
	Error StyleConfig `yaml:"error" json:"error"`

	// Warning style for warning messages and hints
	Warning StyleConfig `yaml:"warning" json:"warning"`

	// Info style for informational messages
	Info StyleConfig `yaml:"info" json:"info"`

	// Highlight style for emphasized text and completion matches
	Highlight StyleConfig `yaml:"highlight" json:"highlight"`

	// List style for list enumerators in command output
	List StyleConfig `yaml:"list" json:"list"`
}

// StyleConfig defines the visual styling for a semantic element.
// Colors can be simple strings or adaptive light/dark objects.
type StyleConfig struct {
	// Foreground color - hex color, named color, or adaptive color object
	Foreground interface{} `yaml:"foreground,omitempty" json:"foreground,omitempty"`

	// Background color - hex color, named color, or adaptive color object
	Background interface{} `yaml:"background,omitempty" json:"background,omitempty"`

	// Bold text decoration
	Bold *bool `yaml:"bold,omitempty" json:"bold,omitempty"`

	// Italic text decoration
	Italic *bool `yaml:"italic,omitempty" json:"italic,omitempty"`

	// Underline text decoration
	Underline *bool `yaml:"underline,omitempty" json:"underline,omitempty"`

	// Strikethrough text decoration
	Strikethrough *bool `yaml:"strikethrough,omitempty" json:"strikethrough,omitempty"`
}

// SegmentConfig describes one prompt segment: a display template, a color
// pair, and an optional icon. Templates may reference session variables with
// {name} placeholders; a segment whose variables all resolve empty is omitted
// from the rendered prompt.
type SegmentConfig struct {
	// Name identifies the segment (e.g., "cwd", "venv", "node", "status")
	Name string `yaml:"name" json:"name"`

	// Template is the display template, e.g. "{cwd}" or "({venv})"
	Template string `yaml:"template" json:"template"`

	// Foreground color for the segment text
	Foreground interface{} `yaml:"foreground,omitempty" json:"foreground,omitempty"`

	// Background color for the segment text
	Background interface{} `yaml:"background,omitempty" json:"background,omitempty"`

	// Icon is an optional glyph prepended to the segment
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// AdaptiveColor defines colors that adapt to light and dark terminal
// backgrounds, so themes work well in both environments.
type AdaptiveColor struct {
	// Light color for light terminal backgrounds
	Light string `yaml:"light" json:"light"`

	// Dark color for dark terminal backgrounds
	Dark string `yaml:"dark" json:"dark"`
}

// ThemeFile represents a complete theme file loaded from YAML.
type ThemeFile struct {
	ThemeConfig `yaml:",inline" json:",inline"`
}
