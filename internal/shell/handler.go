// Package shell hosts the interactive dotshell session: service wiring, the
// readline editing listener, and input routing. Lines starting with a
// backslash are session commands; everything else runs in the system shell.
package shell

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/abiosoft/ishell/v2"
	shellquote "github.com/kballard/go-shellquote"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/logger"
	"dotshell/internal/output"
	"dotshell/internal/services"
)

// SessionCommands are the in-session backslash commands, registered with the
// completion service so they complete in command position.
var SessionCommands = []string{
	`\help`, `\theme`, `\alias`, `\set`, `\vars`, `\bindings`, `\cd`, `\exit`,
}

// InitializeServices registers and initializes the session services in
// dependency order: configuration first so later services can read the rc
// file, theme before anything that prints.
func InitializeServices(testMode bool) error {
	globalCtx := dotcontext.GetGlobalContext().(*dotcontext.DotContext)
	globalCtx.SetTestMode(testMode)

	registry := services.GetGlobalRegistry()

	if !registry.HasService("configuration") {
		if err := registry.RegisterService(services.NewConfigurationService()); err != nil {
			return err
		}
	}
	if !registry.HasService("theme") {
		if err := registry.RegisterService(services.NewThemeService()); err != nil {
			return err
		}
	}
	if !registry.HasService("alias") {
		if err := registry.RegisterService(services.NewAliasService()); err != nil {
			return err
		}
	}
	if !registry.HasService("env") {
		if err := registry.RegisterService(services.NewEnvService()); err != nil {
			return err
		}
	}
	if !registry.HasService("completion") {
		if err := registry.RegisterService(services.NewCompletionService()); err != nil {
			return err
		}
	}
	if !registry.HasService("binding") {
		if err := registry.RegisterService(services.NewBindingService()); err != nil {
			return err
		}
	}
	if !registry.HasService("help") {
		if err := registry.RegisterService(services.NewHelpService()); err != nil {
			return err
		}
	}
	if !registry.HasService("prompt") {
		if err := registry.RegisterService(services.NewPromptService()); err != nil {
			return err
		}
	}

	if err := registry.InitializeAll(); err != nil {
		return err
	}

	if completionService, err := services.GetGlobalCompletionService(); err == nil {
		completionService.RegisterCommands(SessionCommands)
	}
	if envService, err := services.GetGlobalEnvService(); err == nil {
		if cwd, err := os.Getwd(); err == nil {
			envService.ScanDirectory(cwd)
		}
	}

	logger.Debug("Services initialized")
	return nil
}

// sessionPrinter builds a printer styled by the active theme.
func sessionPrinter() *output.Printer {
	if themeService, err := services.GetGlobalThemeService(); err == nil {
		return output.NewPrinter(output.WithStyles(themeService))
	}
	return output.NewPrinter()
}

// ProcessInput routes one line reconstructed from ishell's split arguments.
// ishell hands RawArgs already shellquote-split, so lines bound for the
// system shell are re-quoted rather than space-joined: a quoted argument
// containing spaces stays one argument. The interactive host prefers
// ProcessLine with the exact line the user accepted.
func ProcessInput(c *ishell.Context) {
	if len(c.RawArgs) == 0 {
		return
	}
	first := c.RawArgs[0]
	if first == "" || strings.HasPrefix(first, "#") {
		return
	}
	if strings.HasPrefix(first, `\`) {
		runSessionCommand(c, strings.Join(c.RawArgs, " "))
		return
	}
	runSystemCommand(shellquote.Join(c.RawArgs...))
}

// ProcessLine routes one verbatim input line: backslash session commands are
// handled in-process, everything else goes to the system shell untouched so
// quoting, escapes, and variable references reach it exactly as typed.
func ProcessLine(c *ishell.Context, line string) {
	rawInput := strings.TrimSpace(line)
	if rawInput == "" || strings.HasPrefix(rawInput, "#") {
		return
	}

	if strings.HasPrefix(rawInput, `\`) {
		runSessionCommand(c, rawInput)
		return
	}

	runSystemCommand(rawInput)
}

// runSessionCommand executes a backslash command.
func runSessionCommand(c *ishell.Context, rawInput string) {
	printer := sessionPrinter()
	fields := strings.Fields(rawInput)
	name, args := fields[0], fields[1:]

	switch name {
	case `\help`:
		if helpService, err := services.GetGlobalHelpService(); err == nil {
			printer.Print(helpService.HelpText())
		}
	case `\theme`:
		cmdTheme(printer, args)
	case `\alias`:
		cmdAlias(printer, args)
	case `\set`:
		cmdSet(printer, args)
	case `\vars`:
		cmdVars(printer)
	case `\bindings`:
		cmdBindings(printer)
	case `\cd`:
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		if err := ChangeDirectory(dir); err != nil {
			printer.Error(err.Error())
		}
	case `\exit`:
		c.Stop()
	default:
		printer.Error(fmt.Sprintf("unknown command %s", name))
		printer.Println(`Type \help for available commands`)
	}
	setExitCode(0)
}

// cmdTheme shows the available themes or switches the active one.
func cmdTheme(printer *output.Printer, args []string) {
	themeService, err := services.GetGlobalThemeService()
	if err != nil {
		printer.Error(err.Error())
		return
	}

	if len(args) == 0 {
		active := themeService.ActiveTheme().Name
		for _, name := range themeService.GetAvailableThemes() {
			if name == active {
				printer.Highlight("* " + name)
			} else {
				printer.Println("  " + name)
			}
		}
		return
	}

	name := args[0]
	if _, exists := themeService.GetTheme(name); !exists {
		printer.Warning(fmt.Sprintf("unknown theme %q, falling back to plain", name))
	}
	if err := dotcontext.GetGlobalContext().SetVariable("theme", name); err != nil {
		printer.Error(err.Error())
	}
}

// cmdAlias lists aliases, shows one, or defines one.
func cmdAlias(printer *output.Printer, args []string) {
	aliasService, err := services.GetGlobalAliasService()
	if err != nil {
		printer.Error(err.Error())
		return
	}

	switch len(args) {
	case 0:
		all := aliasService.All()
		names := aliasService.Names()
		for _, name := range names {
			printer.Println(fmt.Sprintf("%s=%q", name, all[name]))
		}
	case 1:
		if expansion, ok := aliasService.Lookup(args[0]); ok {
			printer.Println(fmt.Sprintf("%s=%q", args[0], expansion))
		} else {
			printer.Warning(fmt.Sprintf("alias %s not defined", args[0]))
		}
	default:
		if err := aliasService.Define(args[0], strings.Join(args[1:], " ")); err != nil {
			printer.Error(err.Error())
		}
	}
}

// cmdSet assigns a session variable.
func cmdSet(printer *output.Printer, args []string) {
	if len(args) < 2 {
		printer.Error(`usage: \set name value`)
		return
	}
	if err := dotcontext.GetGlobalContext().SetVariable(args[0], strings.Join(args[1:], " ")); err != nil {
		printer.Error(err.Error())
	}
}

// cmdVars lists the session variables sorted by name.
func cmdVars(printer *output.Printer) {
	variables := dotcontext.GetGlobalContext().GetAllVariables()
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printer.Variable(fmt.Sprintf("%s=%q", name, variables[name]))
	}
}

// cmdBindings lists the registered control-key bindings.
func cmdBindings(printer *output.Printer) {
	bindingService, err := services.GetGlobalBindingService()
	if err != nil {
		printer.Error(err.Error())
		return
	}
	for _, binding := range bindingService.List() {
		printer.Println(fmt.Sprintf("Ctrl+%c  %-12s %s", binding.Key+'@', binding.Name, binding.Description))
	}
}

// ChangeDirectory switches the working directory and rescans it for
// environments. An empty dir means home.
func ChangeDirectory(dir string) error {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot resolve home directory: %w", err)
		}
		dir = home
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}

	if envService, err := services.GetGlobalEnvService(); err == nil {
		if cwd, err := os.Getwd(); err == nil {
			envService.ScanDirectory(cwd)
		}
	}
	return nil
}

// runSystemCommand expands a leading alias, handles cd in-process so the
// session tracks the directory, and hands everything else to the system
// shell with the session's environment.
func runSystemCommand(rawInput string) {
	command := expandLeadingAlias(rawInput)

	if command == "cd" || strings.HasPrefix(command, "cd ") {
		arg := strings.TrimSpace(strings.TrimPrefix(command, "cd"))
		if err := ChangeDirectory(arg); err != nil {
			sessionPrinter().Error(err.Error())
			setExitCode(1)
			return
		}
		setExitCode(0)
		return
	}

	cmd := exec.Command(systemShell(), "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	switch {
	case err == nil:
		setExitCode(0)
	case cmd.ProcessState != nil:
		setExitCode(cmd.ProcessState.ExitCode())
	default:
		logger.Error("Command failed to start", "command", command, "error", err)
		sessionPrinter().Error(err.Error())
		setExitCode(127)
	}
}

// expandLeadingAlias substitutes the command-position word when it names an
// alias. Single non-recursive expansion, same as the expand-alias edit rule.
func expandLeadingAlias(rawInput string) string {
	aliasService, err := services.GetGlobalAliasService()
	if err != nil {
		return rawInput
	}

	word, rest, found := strings.Cut(rawInput, " ")
	expansion, ok := aliasService.Lookup(word)
	if !ok {
		return rawInput
	}
	if !found {
		return expansion
	}
	return expansion + " " + rest
}

// systemShell returns the shell used for external commands.
func systemShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// setExitCode records the last command's exit status for the prompt.
func setExitCode(code int) {
	if code == 0 {
		_ = dotcontext.GetGlobalContext().SetVariable("exit_code", "")
		return
	}
	_ = dotcontext.GetGlobalContext().SetVariable("exit_code", fmt.Sprintf("%d", code))
}
