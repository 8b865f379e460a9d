package shell

import (
	"strconv"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/editing"
	"dotshell/internal/services"
)

// The host contracts both integration points are written against. ishell v2
// declares its Config in terms of abiosoft's readline fork, not chzyer's.
var (
	_ readline.Listener      = (*EditingListener)(nil)
	_ readline.AutoCompleter = (*services.CompletionService)(nil)
)

// New builds the interactive shell host: an ishell instance whose readline
// is configured with the editing listener and the completion service.
// InitializeServices must have run first.
func New() *ishell.Shell {
	dispatcher := editing.NewDefaultDispatcher(aliasLookup)
	listener := NewEditingListener(dispatcher)

	sh := ishell.NewWithConfig(&readline.Config{
		Prompt:          "> ",
		Listener:        listener,
		InterruptPrompt: "^C",
		EOFPrompt:       `\exit`,
	})

	// The stock exit/help become session commands instead.
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")

	if completionService, err := services.GetGlobalCompletionService(); err == nil {
		sh.CustomCompleter(completionService)
	}

	sh.NotFound(func(c *ishell.Context) {
		if line := listener.AcceptedLine(); strings.TrimSpace(line) != "" {
			ProcessLine(c, line)
		} else {
			ProcessInput(c)
		}
		listener.Reset()
		refreshPrompt(c)
	})

	sh.SetPrompt(currentPrompt())
	return sh
}

// aliasLookup feeds the expand-alias editing rule from the alias service.
func aliasLookup(name string) (string, bool) {
	aliasService, err := services.GetGlobalAliasService()
	if err != nil {
		return "", false
	}
	return aliasService.Lookup(name)
}

// currentPrompt renders the prompt for the present session state.
func currentPrompt() string {
	promptService, err := services.GetGlobalPromptService()
	if err != nil {
		return "> "
	}

	code := 0
	if value, _ := dotcontext.GetGlobalContext().GetVariable("exit_code"); value != "" {
		code, _ = strconv.Atoi(value)
	}
	promptService.RefreshVariables(code)
	return promptService.Render()
}

// refreshPrompt updates the shell prompt after a command ran.
func refreshPrompt(c *ishell.Context) {
	c.SetPrompt(currentPrompt())
}
