// Package dottypes defines the shared types and interfaces used across dotshell.
// It contains no business logic; packages under internal/ depend on it to avoid
// import cycles between services, context, and the shell host glue.
package dottypes

// Service defines the interface that all dotshell services must implement.
// Services are registered with the global registry at startup and initialized
// once per interactive session, in registration order.
type Service interface {
	Name() string
	Initialize() error
}

// Context defines the interface services use to access session state.
// The concrete implementation lives in internal/context.
type Context interface {
	// GetVariable returns the value of a session variable, or "" if unset.
	GetVariable(name string) (string, error)

	// SetVariable sets a session variable.
	SetVariable(name string, value string) error

	// GetAllVariables returns a copy of all session variables.
	GetAllVariables() map[string]string

	// SessionID returns the unique id of this interactive session.
	SessionID() string

	// TestMode reports whether the session runs in deterministic test mode.
	TestMode() bool
}
