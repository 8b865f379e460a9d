// Package output provides a unified console output system for dotshell.
// It uses dependency injection to support optional styling, so commands can
// print semantically ("success", "error") without knowing whether a theme is
// loaded or the terminal supports color.
package output

// StyleProvider is the interface that styling services (the theme service)
// implement to provide styled text rendering.
// The output package depends only on this interface, not on concrete services.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	// Semantic types: "info", "success", "warning", "error", "command",
	// "variable", "highlight", "list".
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider is ready to provide styles,
	// allowing the printer to gracefully fall back to plain text.
	IsAvailable() bool

	// GetThemeType returns the terminal background class ("dark", "light",
	// or "auto") so markdown renderers can pick an appropriate style.
	GetThemeType() string
}

// TextStyle represents the capability to render text with styling.
// lipgloss styles are adapted to it by the theme service.
type TextStyle interface {
	// Render applies styling to the given text and returns the result.
	Render(text string) string
}

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"
	// SemanticCommand represents command or executable text.
	SemanticCommand SemanticType = "command"
	// SemanticVariable represents variable or parameter text.
	SemanticVariable SemanticType = "variable"
	// SemanticHighlight represents highlighted or emphasized text.
	SemanticHighlight SemanticType = "highlight"
)
