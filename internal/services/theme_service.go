package services

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/data/embedded"
	"dotshell/internal/logger"
	"dotshell/internal/output"
	"dotshell/pkg/dottypes"
)

// ThemeService loads the embedded theme descriptors and converts them into
// renderable themes. Themes are loaded once at construction and never mutate
// at runtime; lookups always succeed by degrading to the plain theme.
type ThemeService struct {
	initialized bool
	themes      map[string]*Theme
	darkBG      bool
}

// Theme is a loaded theme: semantic styles plus the ordered prompt segments.
type Theme struct {
	Name      string
	Command   lipgloss.Style
	Variable  lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Highlight lipgloss.Style
	List      lipgloss.Style

	Segments []Segment
}

// Segment is a prompt segment ready for rendering: the display template, the
// resolved style, and the optional icon.
type Segment struct {
	Name     string
	Template string
	Style    lipgloss.Style
	Icon     string
}

// NewThemeService creates a ThemeService with all embedded themes loaded.
func NewThemeService() *ThemeService {
	service := &ThemeService{
		themes: make(map[string]*Theme),
		darkBG: termenv.HasDarkBackground(),
	}
	service.loadThemes()
	return service
}

// Name returns the service name "theme" for registration.
func (t *ThemeService) Name() string {
	return "theme"
}

// Initialize sets up the ThemeService for operation.
func (t *ThemeService) Initialize() error {
	t.initialized = true
	return nil
}

func (t *ThemeService) loadThemes() {
	themeFiles := map[string][]byte{
		"default": embedded.DefaultThemeData,
		"dark":    embedded.DarkThemeData,
		"light":   embedded.LightThemeData,
		"plain":   embedded.PlainThemeData,
	}

	for themeName, themeData := range themeFiles {
		theme, err := t.loadThemeFile(themeData)
		if err != nil {
			logger.Error("Failed to load theme", "theme", themeName, "error", err)
			t.themes[themeName] = fallbackTheme(themeName)
			continue
		}
		t.themes[themeName] = theme
	}

	// The plain theme is the fallback of last resort and must always exist.
	if _, exists := t.themes["plain"]; !exists {
		t.themes["plain"] = fallbackTheme("plain")
	}
}

func (t *ThemeService) loadThemeFile(data []byte) (*Theme, error) {
	var themeFile dottypes.ThemeFile

	if err := yaml.Unmarshal(data, &themeFile); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return t.convertThemeConfig(&themeFile.ThemeConfig), nil
}

func (t *ThemeService) convertThemeConfig(config *dottypes.ThemeConfig) *Theme {
	theme := &Theme{
		Name:      config.Name,
		Command:   t.createStyle(config.Styles.Command),
		Variable:  t.createStyle(config.Styles.Variable),
		Success:   t.createStyle(config.Styles.Success),
		Error:     t.createStyle(config.Styles.Error),
		Warning:   t.createStyle(config.Styles.Warning),
		Info:      t.createStyle(config.Styles.Info),
		Highlight: t.createStyle(config.Styles.Highlight),
		List:      t.createStyle(config.Styles.List),
	}

	for _, seg := range config.Segments {
		theme.Segments = append(theme.Segments, t.convertSegment(seg))
	}

	return theme
}

// convertSegment turns a segment descriptor into a renderable segment.
func (t *ThemeService) convertSegment(config dottypes.SegmentConfig) Segment {
	style := lipgloss.NewStyle()
	if color := t.parseColor(config.Foreground); color != nil {
		style = style.Foreground(color)
	}
	if color := t.parseColor(config.Background); color != nil {
		style = style.Background(color)
	}

	return Segment{
		Name:     config.Name,
		Template: config.Template,
		Style:    style,
		Icon:     config.Icon,
	}
}

func (t *ThemeService) createStyle(config dottypes.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()

	if config.Foreground != nil {
		if color := t.parseColor(config.Foreground); color != nil {
			style = style.Foreground(color)
		}
	}
	if config.Background != nil {
		if color := t.parseColor(config.Background); color != nil {
			style = style.Background(color)
		}
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}
	if config.Strikethrough != nil && *config.Strikethrough {
		style = style.Strikethrough(true)
	}

	return style
}

// parseColor parses a color value that can be a string or a light/dark map.
func (t *ThemeService) parseColor(colorValue interface{}) lipgloss.TerminalColor {
	switch v := colorValue.(type) {
	case string:
		return lipgloss.Color(v)
	case map[string]interface{}:
		if light, hasLight := v["light"].(string); hasLight {
			if dark, hasDark := v["dark"].(string); hasDark {
				return lipgloss.AdaptiveColor{Light: light, Dark: dark}
			}
		}
		return nil
	default:
		return nil
	}
}

// fallbackTheme builds an unstyled theme for degraded scenarios.
func fallbackTheme(name string) *Theme {
	return &Theme{
		Name:      name,
		Command:   lipgloss.NewStyle(),
		Variable:  lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle(),
		Info:      lipgloss.NewStyle(),
		Highlight: lipgloss.NewStyle(),
		List:      lipgloss.NewStyle(),
		Segments: []Segment{
			{Name: "cwd", Template: "{cwd}"},
		},
	}
}

// GetAvailableThemes returns the names of all loaded themes.
func (t *ThemeService) GetAvailableThemes() []string {
	if !t.initialized {
		return []string{}
	}

	themes := make([]string, 0, len(t.themes))
	for name := range t.themes {
		themes = append(themes, name)
	}
	return themes
}

// GetTheme returns a specific theme by exact name.
func (t *ThemeService) GetTheme(name string) (*Theme, bool) {
	if !t.initialized {
		return nil, false
	}

	theme, exists := t.themes[name]
	return theme, exists
}

// GetThemeByName retrieves a theme by name, case-insensitive, with "" mapping
// to default. It always returns a usable theme: unknown names degrade to the
// plain theme with a debug log.
func (t *ThemeService) GetThemeByName(name string) *Theme {
	if !t.initialized {
		return fallbackTheme("plain")
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = "default"
	}

	if theme, exists := t.themes[normalized]; exists {
		return theme
	}

	logger.Debug("Unknown theme requested, using plain theme",
		"theme", name, "available", t.GetAvailableThemes())
	return t.themes["plain"]
}

// activeTheme resolves the theme selected by the session "theme" variable.
func (t *ThemeService) activeTheme() *Theme {
	name, _ := dotcontext.GetGlobalContext().GetVariable("theme")
	return t.GetThemeByName(name)
}

// ActiveTheme returns the theme selected by the session "theme" variable,
// falling back through default to plain.
func (t *ThemeService) ActiveTheme() *Theme {
	return t.activeTheme()
}

// lipglossTextStyle adapts a lipgloss.Style to output.TextStyle; the
// lipgloss Render method is variadic and cannot satisfy the interface
// directly.
type lipglossTextStyle struct {
	style lipgloss.Style
}

func (s lipglossTextStyle) Render(text string) string {
	return s.style.Render(text)
}

// GetStyle implements output.StyleProvider for the active theme.
func (t *ThemeService) GetStyle(semantic string) output.TextStyle {
	theme := t.activeTheme()
	switch semantic {
	case "command":
		return lipglossTextStyle{theme.Command}
	case "variable":
		return lipglossTextStyle{theme.Variable}
	case "success":
		return lipglossTextStyle{theme.Success}
	case "error":
		return lipglossTextStyle{theme.Error}
	case "warning":
		return lipglossTextStyle{theme.Warning}
	case "info":
		return lipglossTextStyle{theme.Info}
	case "highlight":
		return lipglossTextStyle{theme.Highlight}
	case "list":
		return lipglossTextStyle{theme.List}
	default:
		return lipglossTextStyle{lipgloss.NewStyle()}
	}
}

// IsAvailable implements output.StyleProvider.
func (t *ThemeService) IsAvailable() bool {
	return t.initialized
}

// GetThemeType implements output.StyleProvider, reporting the terminal
// background class for code rendering.
func (t *ThemeService) GetThemeType() string {
	if t.darkBG {
		return "dark"
	}
	return "light"
}

// ConvertSegments resolves raw segment descriptors into renderable
// segments. Used for the rc file's prompt override.
func (t *ThemeService) ConvertSegments(configs []dottypes.SegmentConfig) []Segment {
	segments := make([]Segment, 0, len(configs))
	for _, config := range configs {
		segments = append(segments, t.convertSegment(config))
	}
	return segments
}

// GetGlobalThemeService returns the theme service from the global registry.
func GetGlobalThemeService() (*ThemeService, error) {
	service, err := GetGlobalRegistry().GetService("theme")
	if err != nil {
		return nil, fmt.Errorf("theme service not registered: %w", err)
	}
	themeService, ok := service.(*ThemeService)
	if !ok {
		return nil, fmt.Errorf("theme service type assertion failed")
	}
	return themeService, nil
}

// Interface compliance checks
var (
	_ dottypes.Service     = (*ThemeService)(nil)
	_ output.StyleProvider = (*ThemeService)(nil)
)
