package services

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"dotshell/internal/data/embedded"
	"dotshell/internal/logger"
	"dotshell/pkg/dottypes"
)

// HelpService renders the in-session help text using Glamour. The renderer
// style follows the terminal background reported by the theme service; when
// rendering fails the raw markdown is shown instead.
type HelpService struct {
	initialized bool
	renderer    *glamour.TermRenderer
}

// NewHelpService creates a new HelpService instance.
func NewHelpService() *HelpService {
	return &HelpService{}
}

// Name returns the service name "help" for registration.
func (h *HelpService) Name() string {
	return "help"
}

// Initialize sets up the markdown renderer.
func (h *HelpService) Initialize() error {
	style := "auto"
	if themeService, err := GetGlobalThemeService(); err == nil {
		style = themeService.GetThemeType()
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		logger.Debug("Failed to create markdown renderer, using plain help", "error", err)
	} else {
		h.renderer = renderer
	}

	h.initialized = true
	return nil
}

// HelpText returns the rendered help text.
func (h *HelpService) HelpText() string {
	return h.render(string(embedded.HelpData))
}

// render converts markdown to terminal output, degrading to the raw text if
// no renderer is available.
func (h *HelpService) render(markdown string) string {
	if h.renderer == nil {
		return markdown
	}
	rendered, err := h.renderer.Render(markdown)
	if err != nil {
		logger.Debug("Markdown rendering failed", "error", err)
		return markdown
	}
	return rendered
}

// GetGlobalHelpService returns the help service from the global registry.
func GetGlobalHelpService() (*HelpService, error) {
	service, err := GetGlobalRegistry().GetService("help")
	if err != nil {
		return nil, fmt.Errorf("help service not registered: %w", err)
	}
	helpService, ok := service.(*HelpService)
	if !ok {
		return nil, fmt.Errorf("help service type assertion failed")
	}
	return helpService, nil
}

// Interface compliance check
var _ dottypes.Service = (*HelpService)(nil)
