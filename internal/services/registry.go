// Package services provides the session services of dotshell: theme loading,
// prompt composition, alias expansion, directory-aware environment scanning,
// completion, and key bindings. Services are registered with the global
// registry and initialized once at session startup.
package services

import (
	"fmt"
	"sync"

	"dotshell/pkg/dottypes"
)

// Registry manages service registration and lifecycle for dotshell services.
type Registry struct {
	mu       sync.RWMutex
	services map[string]dottypes.Service
	order    []string
}

// NewRegistry creates a new service registry with an empty service map.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]dottypes.Service),
	}
}

// RegisterService adds a service to the registry, returning an error if a
// service of the same name is already registered.
func (r *Registry) RegisterService(service dottypes.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := service.Name()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}

	r.services[name] = service
	r.order = append(r.order, name)
	return nil
}

// HasService reports whether a service of the given name is registered.
func (r *Registry) HasService(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.services[name]
	return exists
}

// GetService retrieves a service by name, returning an error if not found.
func (r *Registry) GetService(name string) (dottypes.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("service %s not found", name)
	}

	return service, nil
}

// InitializeAll initializes all registered services in registration order.
// Registration order matters: later services may read state earlier ones set.
func (r *Registry) InitializeAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if err := r.services[name].Initialize(); err != nil {
			return fmt.Errorf("failed to initialize service %s: %w", name, err)
		}
	}

	return nil
}

// GetAllServices returns a copy of all registered services.
func (r *Registry) GetAllServices() map[string]dottypes.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]dottypes.Service, len(r.services))
	for name, service := range r.services {
		result[name] = service
	}

	return result
}

// globalRegistry is the global service registry instance.
var globalRegistry = NewRegistry()

// globalRegistryMu protects access to the globalRegistry variable itself.
var globalRegistryMu sync.RWMutex

// GetGlobalRegistry returns the global service registry instance.
func GetGlobalRegistry() *Registry {
	globalRegistryMu.RLock()
	defer globalRegistryMu.RUnlock()
	return globalRegistry
}

// SetGlobalRegistry replaces the global service registry instance. Tests use
// this to install a clean registry per case.
func SetGlobalRegistry(registry *Registry) {
	globalRegistryMu.Lock()
	defer globalRegistryMu.Unlock()
	globalRegistry = registry
}
