package services

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	dotcontext "dotshell/internal/context"
	"dotshell/pkg/dottypes"
)

// variablePattern matches {name} placeholders inside segment templates.
var variablePattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_.]*)\}`)

// PromptService renders the session prompt from the active theme's segment
// list. Rendering is side-effect free: it reads session variables and emits
// a styled string, nothing else.
type PromptService struct {
	initialized bool
}

// NewPromptService creates a new PromptService instance.
func NewPromptService() *PromptService {
	return &PromptService{}
}

// Name returns the service name "prompt" for registration.
func (p *PromptService) Name() string {
	return "prompt"
}

// Initialize sets up the PromptService for operation.
func (p *PromptService) Initialize() error {
	p.initialized = true
	return nil
}

// RefreshVariables recomputes the session variables the stock segments
// reference. Called before each render so the prompt tracks directory
// changes and command results.
func (p *PromptService) RefreshVariables(exitCode int) {
	ctx := dotcontext.GetGlobalContext()

	if cwd, err := os.Getwd(); err == nil {
		_ = ctx.SetVariable("cwd", limitDepth(shortenHome(cwd), maxCwdDepth))
		_ = ctx.SetVariable("git_branch", gitBranch(cwd))
	}
	if u, err := user.Current(); err == nil {
		_ = ctx.SetVariable("user", u.Username)
	}
	if host, err := os.Hostname(); err == nil {
		_ = ctx.SetVariable("host", host)
	}
	if exitCode == 0 {
		_ = ctx.SetVariable("exit_code", "")
	} else {
		_ = ctx.SetVariable("exit_code", fmt.Sprintf("%d", exitCode))
	}
	if !ctx.TestMode() {
		_ = ctx.SetVariable("time", time.Now().Format("15:04:05"))
	}
}

// Render produces the full prompt string for the active theme: the populated
// segments joined by single spaces, then the terminator.
func (p *PromptService) Render() string {
	themeService, err := GetGlobalThemeService()
	if err != nil {
		return "> "
	}
	theme := themeService.ActiveTheme()

	// The rc file can replace the theme's segment list outright.
	segments := theme.Segments
	if config, err := GetGlobalConfigurationService(); err == nil {
		if override := config.RC().Segments; len(override) > 0 {
			segments = themeService.ConvertSegments(override)
		}
	}

	var parts []string
	for _, segment := range segments {
		if rendered, ok := p.renderSegment(segment); ok {
			parts = append(parts, rendered)
		}
	}

	prompt := strings.Join(parts, " ")
	if prompt != "" {
		prompt += " "
	}
	return prompt + p.terminator(theme)
}

// renderSegment interpolates one segment template. A segment whose
// referenced variables are all empty is dropped so the prompt never shows
// empty decorations like "()".
func (p *PromptService) renderSegment(segment Segment) (string, bool) {
	ctx := dotcontext.GetGlobalContext()

	anyValue := false
	text := variablePattern.ReplaceAllStringFunc(segment.Template, func(match string) string {
		name := match[1 : len(match)-1]
		value, err := ctx.GetVariable(name)
		if err != nil || value == "" {
			return ""
		}
		anyValue = true
		return value
	})

	if !anyValue && variablePattern.MatchString(segment.Template) {
		return "", false
	}
	if segment.Icon != "" {
		text = segment.Icon + " " + text
	}
	return segment.Style.Render(text), true
}

// terminator returns the styled prompt terminator. Plain themes fall back to
// the ASCII form for dumb terminals and transcripts.
func (p *PromptService) terminator(theme *Theme) string {
	if theme.Name == "plain" {
		return "> "
	}
	return theme.Success.Render("❯") + " "
}

// VisibleWidth reports the on-screen width of a rendered prompt with ANSI
// escape sequences stripped. Used by the shell host to align continuation
// lines.
func (p *PromptService) VisibleWidth(prompt string) int {
	return utf8.RuneCountInString(ansi.Strip(prompt))
}

// maxCwdDepth caps how many trailing path components the cwd segment shows.
const maxCwdDepth = 4

// limitDepth trims path to its last components, collapsing the omitted
// prefix into an ellipsis: "~/a/b/c/d/e" renders as "…/c/d/e".
func limitDepth(path string, depth int) string {
	sep := string(filepath.Separator)
	parts := strings.Split(path, sep)
	if len(parts) <= depth {
		return path
	}
	return "…" + sep + strings.Join(parts[len(parts)-depth+1:], sep)
}

// gitBranch reads the checked-out branch from .git/HEAD, walking up from dir
// so nested working directories still resolve the repository root. Returns ""
// outside a repository. Detached heads render as a short commit hash.
func gitBranch(dir string) string {
	for {
		data, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
		if err == nil {
			head := strings.TrimSpace(string(data))
			if ref, ok := strings.CutPrefix(head, "ref: refs/heads/"); ok {
				return ref
			}
			if len(head) >= 7 {
				return head[:7]
			}
			return head
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// shortenHome replaces the home directory prefix of path with "~".
func shortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// GetGlobalPromptService returns the prompt service from the global registry.
func GetGlobalPromptService() (*PromptService, error) {
	service, err := GetGlobalRegistry().GetService("prompt")
	if err != nil {
		return nil, fmt.Errorf("prompt service not registered: %w", err)
	}
	promptService, ok := service.(*PromptService)
	if !ok {
		return nil, fmt.Errorf("prompt service type assertion failed")
	}
	return promptService, nil
}

// Interface compliance check
var _ dottypes.Service = (*PromptService)(nil)
