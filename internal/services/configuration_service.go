package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/logger"
	"dotshell/pkg/dottypes"
)

// ConfigurationService loads session configuration from its sources in
// priority order: process environment first (godotenv never overrides
// variables that are already set), then the local ./.env, then the config
// directory .env, then the rc file. Every source is optional; a missing or
// malformed file degrades to defaults.
type ConfigurationService struct {
	initialized bool
	rc          dottypes.RCConfig

	// configDir and rcPath are overridable for tests.
	configDir string
	rcPath    string
}

// NewConfigurationService creates a ConfigurationService using the standard
// locations: ~/.config/dotshell and ~/.dotshellrc.
func NewConfigurationService() *ConfigurationService {
	home, _ := os.UserHomeDir()
	return &ConfigurationService{
		configDir: filepath.Join(home, ".config", "dotshell"),
		rcPath:    filepath.Join(home, ".dotshellrc"),
	}
}

// NewConfigurationServiceWithPaths creates a ConfigurationService reading
// from explicit locations. Tests use it to point at fixture directories.
func NewConfigurationServiceWithPaths(configDir, rcPath string) *ConfigurationService {
	return &ConfigurationService{
		configDir: configDir,
		rcPath:    rcPath,
	}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads the .env chain and the rc file. Nothing here is fatal:
// each failed source logs at debug and the session continues with defaults.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	// Local .env first so it wins over the config-dir .env; process
	// environment always wins because godotenv does not override.
	if err := godotenv.Load(".env"); err != nil {
		logger.Debug("No local .env loaded", "error", err)
	}
	configEnv := filepath.Join(c.configDir, ".env")
	if err := godotenv.Load(configEnv); err != nil {
		logger.Debug("No config .env loaded", "path", configEnv, "error", err)
	}

	c.loadRC()

	// The selected theme is session state so the prompt and the printer
	// agree on it.
	if c.rc.Theme != "" {
		if err := dotcontext.GetGlobalContext().SetVariable("theme", c.rc.Theme); err != nil {
			return fmt.Errorf("failed to set theme from rc: %w", err)
		}
	}

	c.initialized = true
	return nil
}

// loadRC reads and parses the rc file, degrading to defaults on any failure.
func (c *ConfigurationService) loadRC() {
	data, err := os.ReadFile(c.rcPath)
	if err != nil {
		logger.Debug("No rc file", "path", c.rcPath)
		return
	}

	var rc dottypes.RCConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		logger.Warn("Malformed rc file ignored", "path", c.rcPath, "error", err)
		return
	}

	c.rc = rc
	logger.Debug("RC file loaded", "path", c.rcPath, "aliases", len(rc.Aliases))
}

// RC returns the loaded rc configuration.
func (c *ConfigurationService) RC() dottypes.RCConfig {
	return c.rc
}

// NodeDir returns the directory scanned for installed node versions,
// honoring the rc override and the DOTSHELL_NODE_DIR environment variable.
func (c *ConfigurationService) NodeDir() string {
	if dir := os.Getenv("DOTSHELL_NODE_DIR"); dir != "" {
		return dir
	}
	if c.rc.NodeDir != "" {
		return c.rc.NodeDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nvm", "versions", "node")
}

// GetGlobalConfigurationService returns the configuration service from the
// global registry.
func GetGlobalConfigurationService() (*ConfigurationService, error) {
	service, err := GetGlobalRegistry().GetService("configuration")
	if err != nil {
		return nil, fmt.Errorf("configuration service not registered: %w", err)
	}
	configService, ok := service.(*ConfigurationService)
	if !ok {
		return nil, fmt.Errorf("configuration service type assertion failed")
	}
	return configService, nil
}

// Interface compliance check
var _ dottypes.Service = (*ConfigurationService)(nil)
