package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_FirstMatchingRuleWins(t *testing.T) {
	d := NewDispatcher()

	claimed := Rule{Name: "claimer", Handler: func(st LineState, _ rune, _ []Token) (Op, bool) {
		return insertAt(st.Cursor, "a", st.Cursor+1), true
	}}
	never := Rule{Name: "never", Handler: func(LineState, rune, []Token) (Op, bool) {
		t.Fatal("lower-priority rule ran after a claim")
		return noOp, false
	}}

	d.Bind('x', claimed, never)

	op := d.Dispatch(LineState{Text: []rune("")}, 'x')
	assert.Equal(t, OpInsert, op.Kind)
	assert.Equal(t, "a", op.Text)
}

func TestDispatcher_FallsThroughDeclinedRules(t *testing.T) {
	d := NewDispatcher()

	declines := Rule{Name: "declines", Handler: func(LineState, rune, []Token) (Op, bool) {
		return noOp, false
	}}
	claims := Rule{Name: "claims", Handler: func(st LineState, _ rune, _ []Token) (Op, bool) {
		return Op{Kind: OpMove, Cursor: 0}, true
	}}

	d.Bind('y', declines, claims)

	op := d.Dispatch(LineState{Text: []rune("ab"), Cursor: 2}, 'y')
	assert.Equal(t, OpMove, op.Kind)
}

func TestDispatcher_UnboundKeyIsNoOp(t *testing.T) {
	d := NewDispatcher()
	op := d.Dispatch(LineState{Text: []rune("ab")}, 'z')
	assert.Equal(t, OpNone, op.Kind)
	assert.False(t, op.Alert)
}

func TestDispatcher_RulesListing(t *testing.T) {
	d := NewDefaultDispatcher(func(string) (string, bool) { return "", false })

	assert.True(t, d.Bound('"'))
	assert.True(t, d.Bound('('))
	assert.True(t, d.Bound(KeyBackspace))
	assert.False(t, d.Bound('x'))

	names := d.Rules('"')
	require.Len(t, names, 1)
	assert.Equal(t, "smart-quote", names[0])
}

func TestDefaultDispatcher_EndToEnd(t *testing.T) {
	aliases := map[string]string{"gs": "git status"}
	d := NewDefaultDispatcher(func(name string) (string, bool) {
		exp, ok := aliases[name]
		return exp, ok
	})

	// Type a quote on an empty command: pair inserted.
	st := LineState{Text: []rune("echo "), Cursor: 5}
	st = Apply(st, d.Dispatch(st, '"'))
	assert.Equal(t, `echo ""`, string(st.Text))
	assert.Equal(t, 6, st.Cursor)

	// Backspace between the pair removes both quotes.
	st = Apply(st, d.Dispatch(st, KeyBackspace))
	assert.Equal(t, "echo ", string(st.Text))
	assert.Equal(t, 5, st.Cursor)

	// Alias expansion on the command word.
	st = LineState{Text: []rune("gs"), Cursor: 2}
	st = Apply(st, d.Dispatch(st, KeyExpandAlias))
	assert.Equal(t, "git status", string(st.Text))
	assert.Equal(t, 10, st.Cursor)
}
