package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotshell/pkg/dottypes"
)

// fakeService records initialization order for registry tests.
type fakeService struct {
	name  string
	fail  bool
	order *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Initialize() error {
	if f.fail {
		return fmt.Errorf("service %s failed", f.name)
	}
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	return nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterService(&fakeService{name: "one"}))
	assert.True(t, registry.HasService("one"))
	assert.False(t, registry.HasService("two"))

	service, err := registry.GetService("one")
	require.NoError(t, err)
	assert.Equal(t, "one", service.Name())

	_, err = registry.GetService("two")
	assert.Error(t, err)
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterService(&fakeService{name: "dup"}))
	assert.Error(t, registry.RegisterService(&fakeService{name: "dup"}))
}

func TestRegistry_InitializeAllInRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	var order []string
	for _, name := range []string{"configuration", "theme", "alias"} {
		require.NoError(t, registry.RegisterService(&fakeService{name: name, order: &order}))
	}

	require.NoError(t, registry.InitializeAll())
	assert.Equal(t, []string{"configuration", "theme", "alias"}, order)
}

func TestRegistry_InitializeAllStopsOnFailure(t *testing.T) {
	registry := NewRegistry()

	var order []string
	require.NoError(t, registry.RegisterService(&fakeService{name: "good", order: &order}))
	require.NoError(t, registry.RegisterService(&fakeService{name: "bad", fail: true}))
	require.NoError(t, registry.RegisterService(&fakeService{name: "after", order: &order}))

	err := registry.InitializeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, []string{"good"}, order)
}

func TestGlobalRegistry(t *testing.T) {
	SetGlobalRegistry(NewRegistry())
	defer SetGlobalRegistry(NewRegistry())

	require.NoError(t, GetGlobalRegistry().RegisterService(&fakeService{name: "global"}))
	assert.True(t, GetGlobalRegistry().HasService("global"))
}

var _ dottypes.Service = (*fakeService)(nil)
