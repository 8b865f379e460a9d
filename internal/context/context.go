// Package context provides the session state shared by all dotshell services.
// A single DotContext instance lives for the duration of one interactive
// session; it holds session variables, the active environment marks (virtual
// env path, node version), and the original PATH captured at startup.
package context

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dotshell/pkg/dottypes"
)

// DotContext is the concrete implementation of dottypes.Context.
type DotContext struct {
	mu sync.RWMutex

	variables map[string]string
	sessionID string
	testMode  bool

	// Environment marks: set on detection, read on subsequent scans,
	// cleared on deactivation or process exit.
	venvPath   string
	nodeBinDir string
	basePath   string // PATH as it was before any activation
}

// New creates a new DotContext with a fresh session id and the current
// process PATH captured as the activation baseline.
func New() *DotContext {
	return &DotContext{
		variables: make(map[string]string),
		sessionID: uuid.New().String(),
		basePath:  os.Getenv("PATH"),
	}
}

// NewTestContext creates a context with a fixed session id for
// deterministic tests. The PATH baseline is still captured so activation
// does not clobber the test process environment.
func NewTestContext() *DotContext {
	return &DotContext{
		variables: make(map[string]string),
		sessionID: "00000000-0000-0000-0000-000000000000",
		testMode:  true,
		basePath:  os.Getenv("PATH"),
	}
}

// SessionID returns the unique id of this interactive session.
func (c *DotContext) SessionID() string {
	return c.sessionID
}

// TestMode reports whether the session runs in deterministic test mode.
func (c *DotContext) TestMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.testMode
}

// SetTestMode sets the test mode flag.
func (c *DotContext) SetTestMode(testMode bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testMode = testMode
}

// GetVariable returns the value of a session variable, or "" if unset.
// Names prefixed with "env." read through to process environment variables.
func (c *DotContext) GetVariable(name string) (string, error) {
	if envName, ok := strings.CutPrefix(name, "env."); ok {
		return os.Getenv(envName), nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.variables[name], nil
}

// SetVariable sets a session variable. Variable names must be non-empty.
func (c *DotContext) SetVariable(name string, value string) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[name] = value
	return nil
}

// GetAllVariables returns a copy of all session variables.
func (c *DotContext) GetAllVariables() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.variables))
	for name, value := range c.variables {
		result[name] = value
	}
	return result
}

// VenvPath returns the path of the active virtual environment, or "".
func (c *DotContext) VenvPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.venvPath
}

// SetVenvPath records the active virtual environment path.
func (c *DotContext) SetVenvPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.venvPath = path
}

// NodeBinDir returns the bin directory of the selected node version, or "".
func (c *DotContext) NodeBinDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nodeBinDir
}

// SetNodeBinDir records the bin directory of the selected node version.
func (c *DotContext) SetNodeBinDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodeBinDir = dir
}

// BasePath returns the PATH captured before any environment activation.
func (c *DotContext) BasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.basePath
}

// SetBasePath overrides the activation PATH baseline. Used by tests.
func (c *DotContext) SetBasePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basePath = path
}

// Interface compliance check
var _ dottypes.Context = (*DotContext)(nil)
