// Package main provides the dotshell CLI entry point. Without arguments it
// starts the interactive session; subcommands cover host-shell integration
// (activate, hook), theme inspection, and version reporting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/hook"
	"dotshell/internal/logger"
	"dotshell/internal/output"
	"dotshell/internal/services"
	"dotshell/internal/shell"
	"dotshell/internal/version"
)

var (
	logLevel  string
	logFile   string
	testMode  bool
	shellType string
	detailed  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dotshell",
	Short: "dotshell - a personal shell environment",
	Long: `dotshell is an interactive shell session with themed prompts, smart
line editing, alias expansion, and automatic virtual environment and node
version activation on directory change.`,
	Run: runShell,
}

// shellCmd is the explicit version of the default behavior
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive session",
	Run:   runShell,
}

// activateCmd emits eval-able exports for the current directory
var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Print environment exports for the current directory",
	Long: `Scan the current directory for virtual environments and node version
files and print shell code for the host shell to eval. Intended to be called
from the hook snippet, not by hand:

  eval "$(dotshell activate --shell zsh)"`,
	Run: runActivate,
}

// hookCmd prints the host-shell integration snippet
var hookCmd = &cobra.Command{
	Use:       "hook <shell>",
	Short:     "Print the integration snippet for a host shell",
	Long:      `Print the snippet that re-runs activation on every directory change. Add it to your shell rc file, e.g. eval "$(dotshell hook zsh)".`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: hook.SupportedShells(),
	Run:       runHook,
}

// themeCmd groups the theme inspection commands
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect prompt themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Run:   runThemeList,
}

var themeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a theme's styles and prompt segments",
	Args:  cobra.ExactArgs(1),
	Run:   runThemeShow,
}

// versionCmd reports version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		if detailed {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")

	activateCmd.Flags().StringVar(&shellType, "shell", "bash", "Host shell dialect (bash|zsh|fish)")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show detailed build information")

	for _, flag := range []string{"log-level", "log-file", "test-mode"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeShowCmd)

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting dotshell", "version", version.GetVersion())

	if err := shell.InitializeServices(testMode); err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	sh := shell.New()
	sh.Println(version.GetFormattedVersion())
	sh.Println(`Type '\help' for session commands or '\exit' to quit.`)
	sh.Run()
}

// runActivate bootstraps just enough of the service stack to scan the
// current directory, then prints the resulting exports.
func runActivate(_ *cobra.Command, _ []string) {
	registry := services.GetGlobalRegistry()
	if err := registry.RegisterService(services.NewConfigurationService()); err != nil {
		logger.Fatal("Failed to register services", "error", err)
	}
	if err := registry.RegisterService(services.NewEnvService()); err != nil {
		logger.Fatal("Failed to register services", "error", err)
	}
	if err := registry.InitializeAll(); err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	envService, err := services.GetGlobalEnvService()
	if err != nil {
		logger.Fatal("Env service unavailable", "error", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatal("Cannot determine working directory", "error", err)
	}

	envService.ScanDirectory(cwd)
	fmt.Print(envService.Activation().Render(shellType))
}

func runHook(_ *cobra.Command, args []string) {
	snippet := hook.Snippet(args[0])
	if snippet == "" {
		fmt.Fprintf(os.Stderr, "unsupported shell %q (supported: %v)\n", args[0], hook.SupportedShells())
		os.Exit(1)
	}
	fmt.Print(snippet)
}

func runThemeList(_ *cobra.Command, _ []string) {
	themeService := services.NewThemeService()
	if err := themeService.Initialize(); err != nil {
		logger.Fatal("Failed to load themes", "error", err)
	}
	for _, name := range themeService.GetAvailableThemes() {
		fmt.Println(name)
	}
}

func runThemeShow(_ *cobra.Command, args []string) {
	themeService := services.NewThemeService()
	if err := themeService.Initialize(); err != nil {
		logger.Fatal("Failed to load themes", "error", err)
	}

	theme, exists := themeService.GetTheme(args[0])
	if !exists {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n", args[0])
		os.Exit(1)
	}

	// Select the theme for the style provider, then print a sample of
	// every semantic style plus the segment table.
	ctx := dotcontext.New()
	dotcontext.SetGlobalContext(ctx)
	if err := ctx.SetVariable("theme", theme.Name); err != nil {
		logger.Fatal("Failed to select theme", "error", err)
	}

	printer := output.NewPrinter(output.WithStyles(themeService))
	printer.Println(theme.Name)
	printer.Command("command")
	printer.Variable("variable")
	printer.Success("success")
	printer.Error("error")
	printer.Warning("warning")
	printer.Info("info")
	printer.Highlight("highlight")
	printer.Println("")
	for _, segment := range theme.Segments {
		line := fmt.Sprintf("%-8s %s", segment.Name, segment.Template)
		if segment.Icon != "" {
			line += "  " + segment.Icon
		}
		printer.Println(segment.Style.Render(line))
	}
}
