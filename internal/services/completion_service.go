package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dotcontext "dotshell/internal/context"
	"dotshell/pkg/dottypes"
)

// CompletionService implements tab completion for the interactive session.
// It satisfies the readline AutoCompleter contract: Do receives the line and
// cursor position and returns candidate suffixes plus the length of the word
// being completed.
type CompletionService struct {
	initialized bool

	// commands is the set of in-session command names offered in command
	// position, registered by the shell host.
	commands []string
}

// NewCompletionService creates a new CompletionService instance.
func NewCompletionService() *CompletionService {
	return &CompletionService{}
}

// Name returns the service name "completion" for registration.
func (c *CompletionService) Name() string {
	return "completion"
}

// Initialize sets up the CompletionService for operation.
func (c *CompletionService) Initialize() error {
	c.initialized = true
	return nil
}

// RegisterCommands records the command names offered in command position.
func (c *CompletionService) RegisterCommands(names []string) {
	c.commands = append([]string(nil), names...)
	sort.Strings(c.commands)
}

// Do implements the readline AutoCompleter interface. Contexts are tried in
// priority order and the first that applies wins: variable references,
// command position, directory arguments after cd, then file paths.
func (c *CompletionService) Do(line []rune, pos int) ([][]rune, int) {
	if !c.initialized {
		return nil, 0
	}

	prefix := string(line[:pos])
	word := currentWord(prefix)

	var candidates []string
	switch {
	case strings.HasPrefix(word, "$"):
		candidates = c.variableCandidates(word)
	case isCommandPosition(prefix, word):
		candidates = c.commandCandidates(word)
	case afterCD(prefix, word):
		candidates = pathCandidates(word, true)
	default:
		candidates = pathCandidates(word, false)
	}

	suggestions := make([][]rune, 0, len(candidates))
	for _, candidate := range candidates {
		suggestions = append(suggestions, []rune(strings.TrimPrefix(candidate, word)))
	}
	return suggestions, len([]rune(word))
}

// currentWord returns the word under completion: the text after the last
// unquoted whitespace in the line prefix.
func currentWord(prefix string) string {
	start := 0
	for i, r := range prefix {
		if r == ' ' || r == '\t' {
			start = i + len(string(r))
		}
	}
	return prefix[start:]
}

// isCommandPosition reports whether word sits where a command name goes: at
// line start or right after a command separator.
func isCommandPosition(prefix, word string) bool {
	before := strings.TrimSpace(strings.TrimSuffix(prefix, word))
	if before == "" {
		return true
	}
	for _, sep := range []string{"|", "&&", "||", ";", "&"} {
		if strings.HasSuffix(before, sep) {
			return true
		}
	}
	return false
}

// afterCD reports whether the word completes the argument of a cd command.
func afterCD(prefix, word string) bool {
	before := strings.TrimSpace(strings.TrimSuffix(prefix, word))
	return before == "cd" || strings.HasSuffix(before, " cd") ||
		strings.HasSuffix(before, ";cd") || strings.HasSuffix(before, "|cd")
}

// variableCandidates completes $name and ${name} references from session
// variables and the process environment.
func (c *CompletionService) variableCandidates(word string) []string {
	bare := strings.TrimPrefix(word, "$")
	braced := strings.HasPrefix(bare, "{")
	bare = strings.TrimPrefix(bare, "{")
	seen := make(map[string]bool)
	var names []string

	ctx := dotcontext.GetGlobalContext()
	for name := range ctx.GetAllVariables() {
		if strings.HasPrefix(name, bare) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, entry := range os.Environ() {
		name, _, _ := strings.Cut(entry, "=")
		if strings.HasPrefix(name, bare) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	candidates := make([]string, len(names))
	for i, name := range names {
		if braced {
			candidates[i] = "${" + name + "}"
		} else {
			candidates[i] = "$" + name
		}
	}
	return candidates
}

// commandCandidates completes registered commands and alias names.
func (c *CompletionService) commandCandidates(word string) []string {
	var candidates []string
	for _, name := range c.commands {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, name+" ")
		}
	}
	if aliasService, err := GetGlobalAliasService(); err == nil {
		for _, name := range aliasService.Names() {
			if strings.HasPrefix(name, word) {
				candidates = append(candidates, name+" ")
			}
		}
	}
	sort.Strings(candidates)
	return candidates
}

// pathCandidates completes filesystem paths. With dirsOnly set, plain files
// are filtered out.
func pathCandidates(word string, dirsOnly bool) []string {
	dir, base := filepath.Split(expandTilde(word))
	scanDir := dir
	if scanDir == "" {
		scanDir = "."
	}

	entries, err := os.ReadDir(scanDir)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if base == "" && strings.HasPrefix(name, ".") {
			continue
		}
		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(scanDir, name)); err == nil {
				isDir = info.IsDir()
			}
		}
		if dirsOnly && !isDir {
			continue
		}
		candidate := wordDir(word) + name
		if isDir {
			candidate += string(filepath.Separator)
		} else {
			candidate += " "
		}
		candidates = append(candidates, candidate)
	}

	sort.Strings(candidates)
	return candidates
}

// wordDir returns the directory part of word as typed, before tilde
// expansion, so suggestions extend what the user wrote.
func wordDir(word string) string {
	dir, _ := filepath.Split(word)
	return dir
}

// expandTilde resolves a leading ~/ to the home directory for scanning.
func expandTilde(word string) string {
	if word == "~" || strings.HasPrefix(word, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + word[1:]
		}
	}
	return word
}

// GetGlobalCompletionService returns the completion service from the global
// registry.
func GetGlobalCompletionService() (*CompletionService, error) {
	service, err := GetGlobalRegistry().GetService("completion")
	if err != nil {
		return nil, fmt.Errorf("completion service not registered: %w", err)
	}
	completionService, ok := service.(*CompletionService)
	if !ok {
		return nil, fmt.Errorf("completion service type assertion failed")
	}
	return completionService, nil
}

// Interface compliance check
var _ dottypes.Service = (*CompletionService)(nil)
