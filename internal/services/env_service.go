package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/hook"
	"dotshell/internal/logger"
	"dotshell/internal/output"
	"dotshell/pkg/dottypes"
)

// EnvService performs the directory-aware environment scans: Python virtual
// environment activation and node version switching. Every probe is a plain
// file-existence check; a missing or broken environment is skipped silently
// and never aborts the session.
type EnvService struct {
	initialized bool
	printer     *output.Printer
	log         *log.Logger

	// setenv is swappable so tests do not mutate the process environment.
	setenv   func(key, value string) error
	unsetenv func(key string) error
}

// NewEnvService creates a new EnvService instance.
func NewEnvService() *EnvService {
	return &EnvService{
		printer:  output.NewPrinter(),
		log:      logger.NewStyledLogger("EnvScan"),
		setenv:   os.Setenv,
		unsetenv: os.Unsetenv,
	}
}

// Name returns the service name "env" for registration.
func (e *EnvService) Name() string {
	return "env"
}

// Initialize sets up the EnvService for operation.
func (e *EnvService) Initialize() error {
	e.initialized = true
	return nil
}

// SetPrinter replaces the hint printer. Tests use it to capture hints.
func (e *EnvService) SetPrinter(printer *output.Printer) {
	e.printer = printer
}

// ScanDirectory runs both environment probes for dir. It is called once at
// session start and again after every directory change.
func (e *EnvService) ScanDirectory(dir string) {
	if !e.initialized {
		return
	}

	e.scanVenv(dir)
	e.scanNode(dir)
	e.exportPath()
}

// scanVenv probes dir and its ancestors for a virtual environment and
// updates the activation mark. Moving into a subdirectory of an activated
// project keeps the venv; only leaving the tree deactivates it.
func (e *EnvService) scanVenv(dir string) {
	ctx := dotcontext.GetGlobalContext().(*dotcontext.DotContext)

	venvPath, binDir := findVenv(dir)
	current := ctx.VenvPath()

	switch {
	case venvPath == "" && current == "":
		return
	case venvPath == current:
		return
	case venvPath == "":
		e.log.Debug("Virtual environment deactivated", "venv", current)
		ctx.SetVenvPath("")
		_ = e.unsetenv("VIRTUAL_ENV")
		_ = ctx.SetVariable("venv", "")
	default:
		e.log.Debug("Virtual environment activated", "venv", venvPath, "bin", binDir)
		ctx.SetVenvPath(venvPath)
		_ = e.setenv("VIRTUAL_ENV", venvPath)
		_ = ctx.SetVariable("venv", venvDisplayName(venvPath))
	}
}

// findVenv returns the venv root and its bin directory for dir, or empty
// strings. It probes .venv then venv, and bin then Scripts inside each,
// walking up parent directories so subdirectories of a project resolve the
// project's venv.
func findVenv(dir string) (string, string) {
	for {
		if root, bin := venvAt(dir); root != "" {
			return root, bin
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

// venvAt probes a single directory for a virtual environment.
func venvAt(dir string) (string, string) {
	for _, name := range []string{".venv", "venv"} {
		root := filepath.Join(dir, name)
		for _, bin := range []string{"bin", "Scripts"} {
			activate := filepath.Join(root, bin, "activate")
			if _, err := os.Stat(activate); err == nil {
				return root, filepath.Join(root, bin)
			}
		}
	}
	return "", ""
}

// venvDisplayName picks the name shown in the prompt: the project directory
// for the conventional .venv/venv layouts, the venv directory otherwise.
func venvDisplayName(venvPath string) string {
	base := filepath.Base(venvPath)
	if base == ".venv" || base == "venv" {
		return filepath.Base(filepath.Dir(venvPath))
	}
	return base
}

// scanNode probes dir for a node version file and selects the best installed
// match. An unmatched request prints one hint and nothing more.
func (e *EnvService) scanNode(dir string) {
	ctx := dotcontext.GetGlobalContext().(*dotcontext.DotContext)

	raw := readNodeVersionFile(dir)
	if raw == "" {
		if ctx.NodeBinDir() != "" {
			e.log.Debug("Node version selection cleared")
			ctx.SetNodeBinDir("")
			_ = ctx.SetVariable("node", "")
		}
		return
	}

	constraint, err := parseNodeConstraint(raw)
	if err != nil {
		e.log.Debug("Unparseable node version request skipped", "request", raw, "error", err)
		return
	}

	nodeDir := e.nodeDir()
	version, ok := bestInstalledNode(nodeDir, constraint)
	if !ok {
		e.printer.Warning(fmt.Sprintf("node %s requested here but not installed under %s", raw, nodeDir))
		return
	}

	binDir := filepath.Join(nodeDir, "v"+version.String(), "bin")
	if binDir == ctx.NodeBinDir() {
		return
	}

	e.log.Debug("Node version selected", "version", version.String(), "bin", binDir)
	ctx.SetNodeBinDir(binDir)
	_ = ctx.SetVariable("node", "v"+version.String())
}

// nodeDir resolves the installed-versions directory, preferring the
// configuration service when registered.
func (e *EnvService) nodeDir() string {
	if dir := os.Getenv("DOTSHELL_NODE_DIR"); dir != "" {
		return dir
	}
	if config, err := GetGlobalConfigurationService(); err == nil {
		return config.NodeDir()
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nvm", "versions", "node")
}

// readNodeVersionFile returns the trimmed contents of .nvmrc or
// .node-version under dir, or "".
func readNodeVersionFile(dir string) string {
	for _, name := range []string{".nvmrc", ".node-version"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if raw := strings.TrimSpace(string(data)); raw != "" {
			return raw
		}
	}
	return ""
}

// parseNodeConstraint turns a version-file entry into a semver constraint.
// Exact versions ("18.17.0", "v18.17.0") match exactly; partial versions
// ("18", "18.17") match the newest release in that line.
func parseNodeConstraint(raw string) (*semver.Constraints, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "v")

	if _, err := semver.StrictNewVersion(raw); err == nil {
		return semver.NewConstraint("= " + raw)
	}
	if constraint, err := semver.NewConstraint("^" + raw); err == nil {
		return constraint, nil
	}
	return semver.NewConstraint(raw)
}

// bestInstalledNode scans nodeDir for vX.Y.Z entries matching the constraint
// and returns the highest match.
func bestInstalledNode(nodeDir string, constraint *semver.Constraints) (*semver.Version, bool) {
	entries, err := os.ReadDir(nodeDir)
	if err != nil {
		return nil, false
	}

	var matches []*semver.Version
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version, err := semver.NewVersion(strings.TrimPrefix(entry.Name(), "v"))
		if err != nil {
			continue
		}
		if constraint.Check(version) {
			matches = append(matches, version)
		}
	}

	if len(matches) == 0 {
		return nil, false
	}

	sort.Sort(semver.Collection(matches))
	return matches[len(matches)-1], true
}

// exportPath rebuilds PATH from the activation marks: venv bin first, then
// node bin, then the baseline captured at session start.
func (e *EnvService) exportPath() {
	ctx := dotcontext.GetGlobalContext().(*dotcontext.DotContext)

	var parts []string
	if ctx.VenvPath() != "" {
		if _, binDir := venvAt(filepath.Dir(ctx.VenvPath())); binDir != "" {
			parts = append(parts, binDir)
		}
	}
	if ctx.NodeBinDir() != "" {
		parts = append(parts, ctx.NodeBinDir())
	}
	parts = append(parts, ctx.BasePath())

	_ = e.setenv("PATH", strings.Join(parts, string(os.PathListSeparator)))
}

// Activation captures the current activation state as host-shell exports.
// The hook command evals its rendering after every directory change.
func (e *EnvService) Activation() hook.Exports {
	ctx := dotcontext.GetGlobalContext().(*dotcontext.DotContext)

	exports := hook.Exports{
		Set: map[string]string{"PATH": os.Getenv("PATH")},
	}
	if venv := ctx.VenvPath(); venv != "" {
		exports.Set["VIRTUAL_ENV"] = venv
	} else {
		exports.Unset = append(exports.Unset, "VIRTUAL_ENV")
	}
	return exports
}

// GetGlobalEnvService returns the env service from the global registry.
func GetGlobalEnvService() (*EnvService, error) {
	service, err := GetGlobalRegistry().GetService("env")
	if err != nil {
		return nil, fmt.Errorf("env service not registered: %w", err)
	}
	envService, ok := service.(*EnvService)
	if !ok {
		return nil, fmt.Errorf("env service type assertion failed")
	}
	return envService, nil
}

// Interface compliance check
var _ dottypes.Service = (*EnvService)(nil)
