package context

import (
	"sync"

	"dotshell/pkg/dottypes"
)

// globalContext holds the singleton instance of the global context
var globalContext dottypes.Context

// globalContextMu protects access to the global context instance
var globalContextMu sync.RWMutex

// globalContextOnce ensures singleton initialization happens only once
var globalContextOnce sync.Once

// GetGlobalContext returns the global context singleton instance in a
// thread-safe manner. If no global context has been set, it creates a new
// DotContext instance.
func GetGlobalContext() dottypes.Context {
	globalContextOnce.Do(func() {
		if globalContext == nil {
			globalContext = New()
		}
	})

	globalContextMu.RLock()
	defer globalContextMu.RUnlock()
	return globalContext
}

// SetGlobalContext sets the global context instance in a thread-safe manner.
// This is useful for testing or when the context must be replaced.
func SetGlobalContext(ctx dottypes.Context) {
	globalContextMu.Lock()
	defer globalContextMu.Unlock()
	globalContext = ctx
}

// ResetGlobalContext resets the global context singleton. This is primarily
// for tests to ensure clean state between cases.
func ResetGlobalContext() {
	globalContextMu.Lock()
	defer globalContextMu.Unlock()
	globalContext = nil
	globalContextOnce = sync.Once{}
}
