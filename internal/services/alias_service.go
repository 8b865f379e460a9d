package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"dotshell/internal/logger"
	"dotshell/pkg/dottypes"
)

// builtinAliases are the directory-navigation shortcuts every session gets.
// User aliases of the same name shadow them.
var builtinAliases = map[string]string{
	"..":   "cd ..",
	"...":  "cd ../..",
	"....": "cd ../../..",
	"l":    "ls -CF",
	"la":   "ls -A",
	"ll":   "ls -alF",
}

// AliasService manages named command expansions: the built-in navigation
// shortcuts plus user aliases from the rc file. Expansion is a single
// non-recursive substitution of the command-position word.
type AliasService struct {
	initialized bool
	aliases     map[string]string
	mu          sync.RWMutex
}

// NewAliasService creates a new AliasService instance.
func NewAliasService() *AliasService {
	return &AliasService{
		aliases: make(map[string]string),
	}
}

// Name returns the service name "alias" for registration.
func (a *AliasService) Name() string {
	return "alias"
}

// Initialize installs the built-in aliases and overlays user aliases from
// the configuration service when one is registered.
func (a *AliasService) Initialize() error {
	a.mu.Lock()
	for name, expansion := range builtinAliases {
		a.aliases[name] = expansion
	}
	a.mu.Unlock()

	// The configuration service is optional; without it the builtins stand.
	if config, err := GetGlobalConfigurationService(); err == nil {
		a.LoadUserAliases(config.RC().Aliases)
	}

	a.initialized = true
	return nil
}

// LoadUserAliases overlays user alias definitions over the current set.
func (a *AliasService) LoadUserAliases(aliases map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for name, expansion := range aliases {
		if expansion == "" {
			continue
		}
		a.aliases[name] = expansion
		logger.Debug("User alias loaded", "alias", name)
	}
}

// Define adds or replaces a single alias.
func (a *AliasService) Define(name, expansion string) error {
	if name == "" {
		return fmt.Errorf("alias name cannot be empty")
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("alias %s: name cannot contain whitespace", name)
	}
	if expansion == "" {
		return fmt.Errorf("alias %s: expansion cannot be empty", name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.aliases[name] = expansion
	return nil
}

// Lookup returns the expansion for name. It is the lookup injected into the
// expand-alias editing rule.
func (a *AliasService) Lookup(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	expansion, ok := a.aliases[name]
	return expansion, ok
}

// Names returns all alias names in sorted order.
func (a *AliasService) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.aliases))
	for name := range a.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the full alias table.
func (a *AliasService) All() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make(map[string]string, len(a.aliases))
	for name, expansion := range a.aliases {
		result[name] = expansion
	}
	return result
}

// GetGlobalAliasService returns the alias service from the global registry.
func GetGlobalAliasService() (*AliasService, error) {
	service, err := GetGlobalRegistry().GetService("alias")
	if err != nil {
		return nil, fmt.Errorf("alias service not registered: %w", err)
	}
	aliasService, ok := service.(*AliasService)
	if !ok {
		return nil, fmt.Errorf("alias service type assertion failed")
	}
	return aliasService, nil
}

// Interface compliance check
var _ dottypes.Service = (*AliasService)(nil)
