package services

import (
	"fmt"
	"sort"

	"dotshell/internal/logger"
	"dotshell/pkg/dottypes"
)

// Binding is one registered control-key action: a key, a display name for
// the bindings listing, and the handler invoked with the current line.
type Binding struct {
	Key         rune
	Name        string
	Description string
	Handler     func(line []rune) error
}

// BindingService keeps the registry of control-key bindings that act on the
// whole line rather than editing it. Rebinding a key replaces the previous
// binding.
type BindingService struct {
	initialized bool
	bindings    map[rune]Binding
}

// NewBindingService creates a new BindingService instance.
func NewBindingService() *BindingService {
	return &BindingService{
		bindings: make(map[rune]Binding),
	}
}

// Name returns the service name "binding" for registration.
func (b *BindingService) Name() string {
	return "binding"
}

// Initialize registers the stock bindings.
func (b *BindingService) Initialize() error {
	b.initialized = true

	b.Register(Binding{
		Key:         KeyCopyLine,
		Name:        "copy-line",
		Description: "Copy the current line to the system clipboard",
		Handler:     copyLineToClipboard,
	})

	return nil
}

// KeyCopyLine is Ctrl+Y.
const KeyCopyLine rune = 0x19

// Register installs a binding, replacing any existing binding on the same
// key.
func (b *BindingService) Register(binding Binding) {
	if previous, exists := b.bindings[binding.Key]; exists {
		logger.Debug("Key binding replaced",
			"key", fmt.Sprintf("%#x", binding.Key), "previous", previous.Name, "new", binding.Name)
	}
	b.bindings[binding.Key] = binding
}

// Lookup returns the binding for key, if any.
func (b *BindingService) Lookup(key rune) (Binding, bool) {
	binding, exists := b.bindings[key]
	return binding, exists
}

// Trigger runs the binding for key against line. It reports whether a
// binding existed; handler errors are logged, not surfaced, so a failed
// action never disturbs the edit line.
func (b *BindingService) Trigger(key rune, line []rune) bool {
	binding, exists := b.bindings[key]
	if !exists {
		return false
	}
	if err := binding.Handler(line); err != nil {
		logger.Debug("Key binding action failed", "binding", binding.Name, "error", err)
	}
	return true
}

// List returns all bindings sorted by key for the bindings listing.
func (b *BindingService) List() []Binding {
	bindings := make([]Binding, 0, len(b.bindings))
	for _, binding := range b.bindings {
		bindings = append(bindings, binding)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Key < bindings[j].Key
	})
	return bindings
}

// copyLineToClipboard places the current line on the system clipboard. On
// platforms without clipboard support this is a no-op with a debug log.
func copyLineToClipboard(line []rune) error {
	if !clipboardAvailable {
		logger.Debug("Clipboard not available on this platform")
		return nil
	}
	if err := initClipboard(); err != nil {
		return err
	}
	return writeToClipboard(string(line))
}

// GetGlobalBindingService returns the binding service from the global
// registry.
func GetGlobalBindingService() (*BindingService, error) {
	service, err := GetGlobalRegistry().GetService("binding")
	if err != nil {
		return nil, fmt.Errorf("binding service not registered: %w", err)
	}
	bindingService, ok := service.(*BindingService)
	if !ok {
		return nil, fmt.Errorf("binding service type assertion failed")
	}
	return bindingService, nil
}

// Interface compliance check
var _ dottypes.Service = (*BindingService)(nil)
