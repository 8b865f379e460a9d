package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingService_Name(t *testing.T) {
	service := NewBindingService()
	assert.Equal(t, "binding", service.Name())
}

func TestBindingService_StockBindings(t *testing.T) {
	service := NewBindingService()
	require.NoError(t, service.Initialize())

	binding, exists := service.Lookup(KeyCopyLine)
	require.True(t, exists)
	assert.Equal(t, "copy-line", binding.Name)
}

func TestBindingService_RegisterAndTrigger(t *testing.T) {
	service := NewBindingService()
	require.NoError(t, service.Initialize())

	var captured string
	service.Register(Binding{
		Key:  0x07,
		Name: "capture",
		Handler: func(line []rune) error {
			captured = string(line)
			return nil
		},
	})

	handled := service.Trigger(0x07, []rune("git status"))
	assert.True(t, handled)
	assert.Equal(t, "git status", captured)

	handled = service.Trigger(0x01, []rune("anything"))
	assert.False(t, handled)
}

func TestBindingService_RebindReplaces(t *testing.T) {
	service := NewBindingService()
	require.NoError(t, service.Initialize())

	var hits int
	service.Register(Binding{Key: 0x07, Name: "first", Handler: func([]rune) error { hits++; return nil }})
	service.Register(Binding{Key: 0x07, Name: "second", Handler: func([]rune) error { hits += 10; return nil }})

	service.Trigger(0x07, nil)
	assert.Equal(t, 10, hits)

	binding, _ := service.Lookup(0x07)
	assert.Equal(t, "second", binding.Name)
}

func TestBindingService_HandlerErrorsDoNotPropagate(t *testing.T) {
	service := NewBindingService()
	require.NoError(t, service.Initialize())

	service.Register(Binding{
		Key:     0x07,
		Name:    "failing",
		Handler: func([]rune) error { return fmt.Errorf("boom") },
	})

	assert.True(t, service.Trigger(0x07, []rune("line")))
}

func TestBindingService_ListSortedByKey(t *testing.T) {
	service := NewBindingService()
	require.NoError(t, service.Initialize())

	service.Register(Binding{Key: 0x02, Name: "b", Handler: func([]rune) error { return nil }})
	service.Register(Binding{Key: 0x01, Name: "a", Handler: func([]rune) error { return nil }})

	bindings := service.List()
	require.Len(t, bindings, 3)
	assert.Equal(t, rune(0x01), bindings[0].Key)
	assert.Equal(t, rune(0x02), bindings[1].Key)
	assert.Equal(t, KeyCopyLine, bindings[2].Key)
}
