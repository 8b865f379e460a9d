// Package hook generates the host-shell integration snippets: eval-able
// activation output for one directory, and the chpwd/prompt hooks that keep
// a host bash, zsh, or fish session in sync without starting the
// interactive shell.
package hook

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Exports describes the environment changes activation computed for a
// directory: variables to export and variables to unset.
type Exports struct {
	Set   map[string]string
	Unset []string
}

// Render produces the shell code for the host shell to eval. Keys are
// emitted in a stable order so the output is diffable.
func (e Exports) Render(shellType string) string {
	var b strings.Builder

	for _, key := range sortedKeys(e.Set) {
		value := e.Set[key]
		switch shellType {
		case "fish":
			if key == "PATH" {
				// fish wants PATH as a list, not a colon-joined scalar.
				fmt.Fprintf(&b, "set -gx PATH %s\n", fishPathList(value))
				continue
			}
			fmt.Fprintf(&b, "set -gx %s %q\n", key, value)
		default: // bash, zsh, sh
			fmt.Fprintf(&b, "export %s=%q\n", key, value)
		}
	}

	for _, key := range e.Unset {
		switch shellType {
		case "fish":
			fmt.Fprintf(&b, "set -e %s\n", key)
		default:
			fmt.Fprintf(&b, "unset %s\n", key)
		}
	}

	return b.String()
}

// fishPathList converts a colon-joined PATH into quoted fish list elements.
func fishPathList(path string) string {
	parts := strings.Split(path, string(os.PathListSeparator))
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = fmt.Sprintf("%q", part)
	}
	return strings.Join(quoted, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snippet returns the integration snippet for the named shell: a function
// that re-runs activation on every directory change. Unknown shells get an
// empty string.
func Snippet(shellType string) string {
	switch shellType {
	case "zsh":
		return `# dotshell integration (zsh)
_dotshell_chpwd() {
  eval "$(dotshell activate --shell zsh 2>/dev/null)"
}
chpwd_functions+=(_dotshell_chpwd)
_dotshell_chpwd
`
	case "bash":
		return `# dotshell integration (bash)
_dotshell_prompt_command() {
  eval "$(dotshell activate --shell bash 2>/dev/null)"
}
PROMPT_COMMAND="_dotshell_prompt_command;${PROMPT_COMMAND}"
`
	case "fish":
		return `# dotshell integration (fish)
function _dotshell_chpwd --on-variable PWD
  eval (dotshell activate --shell fish 2>/dev/null)
end
_dotshell_chpwd
`
	default:
		return ""
	}
}

// SupportedShells lists the shells Snippet knows about.
func SupportedShells() []string {
	return []string{"bash", "zsh", "fish"}
}
