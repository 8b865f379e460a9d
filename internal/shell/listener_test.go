package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dotcontext "dotshell/internal/context"
	"dotshell/internal/editing"
	"dotshell/internal/services"
)

func newTestListener(t *testing.T) *EditingListener {
	t.Helper()

	dotcontext.SetGlobalContext(dotcontext.NewTestContext())
	t.Cleanup(dotcontext.ResetGlobalContext)
	services.SetGlobalRegistry(services.NewRegistry())
	t.Cleanup(func() { services.SetGlobalRegistry(services.NewRegistry()) })

	lookup := func(name string) (string, bool) {
		if name == "gs" {
			return "git status", true
		}
		return "", false
	}
	return NewEditingListener(editing.NewDefaultDispatcher(lookup))
}

// type a printable key the way readline does: self-insert first, then
// OnChange with the post-insert buffer.
func typeKey(listener *EditingListener, line []rune, pos int, key rune) ([]rune, int) {
	inserted := make([]rune, 0, len(line)+1)
	inserted = append(inserted, line[:pos]...)
	inserted = append(inserted, key)
	inserted = append(inserted, line[pos:]...)

	newLine, newPos, ok := listener.OnChange(inserted, pos+1, key)
	if !ok {
		return inserted, pos + 1
	}
	return newLine, newPos
}

func TestEditingListener_TypedSequenceBuildsSnapshot(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range "echo " {
		line, pos = typeKey(listener, line, pos, key)
	}
	line, pos = typeKey(listener, line, pos, '"')
	assert.Equal(t, `echo ""`, string(line))
	assert.Equal(t, 6, pos)

	// Typing the closing quote steps over instead of inserting.
	line, pos = typeKey(listener, line, pos, '"')
	assert.Equal(t, `echo ""`, string(line))
	assert.Equal(t, 7, pos)
}

func TestEditingListener_PairBackspace(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range "echo " {
		line, pos = typeKey(listener, line, pos, key)
	}
	line, pos = typeKey(listener, line, pos, '(')
	require.Equal(t, "echo ()", string(line))
	require.Equal(t, 6, pos)

	// Readline's default backspace removes the opener; the rule removes
	// the whole pair from the snapshot instead.
	afterDefault := []rune("echo )")
	newLine, newPos, ok := listener.OnChange(afterDefault, 5, editing.KeyBackspace)
	require.True(t, ok)
	assert.Equal(t, "echo ", string(newLine))
	assert.Equal(t, 5, newPos)
}

func TestEditingListener_AliasExpansion(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range "gs" {
		line, pos = typeKey(listener, line, pos, key)
	}

	// Ctrl+E leaves the buffer alone in readline's default handling.
	newLine, newPos, ok := listener.OnChange(line, pos, editing.KeyExpandAlias)
	require.True(t, ok)
	assert.Equal(t, "git status", string(newLine))
	assert.Equal(t, 10, newPos)
}

func TestEditingListener_UnboundKeysPassThrough(t *testing.T) {
	listener := newTestListener(t)

	line := []rune("plain")
	newLine, newPos, ok := listener.OnChange(line, 5, 'n')
	assert.False(t, ok)
	assert.Equal(t, "plain", string(newLine))
	assert.Equal(t, 5, newPos)
}

func TestEditingListener_BindingTriggered(t *testing.T) {
	listener := newTestListener(t)

	registry := services.GetGlobalRegistry()
	require.NoError(t, registry.RegisterService(services.NewBindingService()))
	require.NoError(t, registry.InitializeAll())

	bindingService, err := services.GetGlobalBindingService()
	require.NoError(t, err)

	var captured string
	bindingService.Register(services.Binding{
		Key:  0x07,
		Name: "capture",
		Handler: func(line []rune) error {
			captured = string(line)
			return nil
		},
	})

	line, pos := []rune(nil), 0
	for _, key := range "git log" {
		line, pos = typeKey(listener, line, pos, key)
	}

	newLine, newPos, ok := listener.OnChange(line, pos, 0x07)
	require.True(t, ok)
	assert.Equal(t, "git log", captured)
	assert.Equal(t, "git log", string(newLine))
	assert.Equal(t, 7, newPos)
}

func TestEditingListener_SearchModeKeysPassThrough(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range "echo" {
		line, pos = typeKey(listener, line, pos, key)
	}
	_ = line

	// During incremental search readline hands OnChange the matched
	// history entry rather than a self-insert of the snapshot; the quote
	// must not rewrite it.
	candidate := []rune("grep pattern file")
	newLine, newPos, ok := listener.OnChange(candidate, len(candidate), '"')
	assert.False(t, ok)
	assert.Equal(t, string(candidate), string(newLine))
	assert.Equal(t, len(candidate), newPos)

	// Same for backspace over a search candidate.
	candidate = []rune("grep pattern")
	newLine, newPos, ok = listener.OnChange(candidate, len(candidate), editing.KeyBackspace)
	assert.False(t, ok)
	assert.Equal(t, string(candidate), string(newLine))
	assert.Equal(t, len(candidate), newPos)
}

func TestEditingListener_AcceptedLine(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range `echo "a b"` {
		line, pos = typeKey(listener, line, pos, key)
	}
	_, _ = line, pos

	assert.Equal(t, `echo "a b"`, listener.AcceptedLine())

	listener.Reset()
	assert.Empty(t, listener.AcceptedLine())
}

func TestEditingListener_ResetClearsSnapshot(t *testing.T) {
	listener := newTestListener(t)

	line, pos := []rune(nil), 0
	for _, key := range "echo hi" {
		line, pos = typeKey(listener, line, pos, key)
	}
	listener.Reset()

	// A fresh quote on an empty line pairs up, proving the old snapshot
	// is gone.
	newLine, newPos := typeKey(listener, nil, 0, '\'')
	assert.Equal(t, "''", string(newLine))
	assert.Equal(t, 1, newPos)
}
