package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRule runs a single rule against the line with the cursor position
// marked by the first '|' in the input, returning the op and whether the
// rule applied.
func runRule(t *testing.T, rule Rule, marked string, key rune, sel *Selection) (Op, bool) {
	t.Helper()
	st := stateFromMarked(t, marked)
	st.Selection = sel
	return rule.Handler(st, key, Tokenize(st.Text))
}

// stateFromMarked parses "echo |" into text "echo " with cursor 5.
func stateFromMarked(t *testing.T, marked string) LineState {
	t.Helper()
	runes := []rune(marked)
	for i, r := range runes {
		if r == '|' {
			text := append([]rune{}, runes[:i]...)
			text = append(text, runes[i+1:]...)
			return LineState{Text: text, Cursor: i}
		}
	}
	t.Fatalf("no cursor marker in %q", marked)
	return LineState{}
}

// applyMarked runs the rule and renders the result back into marked form.
func applyMarked(t *testing.T, rule Rule, marked string, key rune) string {
	t.Helper()
	st := stateFromMarked(t, marked)
	op, ok := rule.Handler(st, key, Tokenize(st.Text))
	require.True(t, ok, "rule did not apply")
	out := Apply(st, op)
	return string(out.Text[:out.Cursor]) + "|" + string(out.Text[out.Cursor:])
}

func TestSmartQuote_InsertsPair(t *testing.T) {
	assert.Equal(t, `echo "|"`, applyMarked(t, SmartQuoteRule(), "echo |", '"'))
	assert.Equal(t, `echo '|'`, applyMarked(t, SmartQuoteRule(), "echo |", '\''))
}

func TestSmartQuote_StepsOverClosingQuote(t *testing.T) {
	assert.Equal(t, `echo "hi"|`, applyMarked(t, SmartQuoteRule(), `echo "hi|"`, '"'))
}

func TestSmartQuote_DeclinesInsideUnterminatedString(t *testing.T) {
	// Declining lets the host self-insert, which closes the string.
	_, ok := runRule(t, SmartQuoteRule(), `echo "hi|`, '"', nil)
	assert.False(t, ok)
}

func TestSmartQuote_DeclinesInsideOtherQuoteKind(t *testing.T) {
	_, ok := runRule(t, SmartQuoteRule(), `echo 'hi|`, '"', nil)
	assert.False(t, ok)
}

func TestSmartQuote_DeclinesInsideComment(t *testing.T) {
	_, ok := runRule(t, SmartQuoteRule(), `ls # note|`, '"', nil)
	assert.False(t, ok)
}

func TestSmartQuote_WrapsSelection(t *testing.T) {
	st := LineState{Text: []rune("echo hello"), Cursor: 5, Selection: &Selection{Start: 5, Len: 5}}
	op, ok := SmartQuoteRule().Handler(st, '"', Tokenize(st.Text))
	require.True(t, ok)

	out := Apply(st, op)
	assert.Equal(t, `echo "hello"`, string(out.Text))
	assert.Equal(t, 12, out.Cursor)
}

func TestSmartQuote_IgnoresOtherKeys(t *testing.T) {
	_, ok := runRule(t, SmartQuoteRule(), "echo |", 'x', nil)
	assert.False(t, ok)
}

func TestSmartOpen_InsertsPair(t *testing.T) {
	assert.Equal(t, "echo (|)", applyMarked(t, SmartOpenRule(), "echo |", '('))
	assert.Equal(t, "echo [|]", applyMarked(t, SmartOpenRule(), "echo |", '['))
	assert.Equal(t, "echo {|}", applyMarked(t, SmartOpenRule(), "echo |", '{'))
}

func TestSmartOpen_DeclinesInsideString(t *testing.T) {
	_, ok := runRule(t, SmartOpenRule(), `echo "a|`, '(', nil)
	assert.False(t, ok)
}

func TestSmartOpen_WrapsSelection(t *testing.T) {
	st := LineState{Text: []rune("rm old new"), Cursor: 3, Selection: &Selection{Start: 3, Len: 7}}
	op, ok := SmartOpenRule().Handler(st, '{', Tokenize(st.Text))
	require.True(t, ok)

	out := Apply(st, op)
	assert.Equal(t, "rm {old new}", string(out.Text))
}

func TestSmartClose_StepsOverMatchingCloser(t *testing.T) {
	assert.Equal(t, "echo ()|", applyMarked(t, SmartCloseRule(), "echo (|)", ')'))
}

func TestSmartClose_DeclinesWhenNoCloserUnderCursor(t *testing.T) {
	_, ok := runRule(t, SmartCloseRule(), "echo (a|", ')', nil)
	assert.False(t, ok)
}

func TestPairBackspace_DeletesEmptyPair(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"parens", "echo (|)", "echo |"},
		{"brackets", "echo [|]", "echo |"},
		{"double quotes", `echo "|"`, "echo |"},
		{"single quotes", "echo '|'", "echo |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, applyMarked(t, PairBackspaceRule(), tt.input, KeyBackspace))
		})
	}
}

func TestPairBackspace_AlertsAtLineStart(t *testing.T) {
	op, ok := runRule(t, PairBackspaceRule(), "|echo", KeyBackspace, nil)
	require.True(t, ok)
	assert.Equal(t, OpNone, op.Kind)
	assert.True(t, op.Alert)
}

func TestPairBackspace_DeclinesForOrdinaryDeletes(t *testing.T) {
	_, ok := runRule(t, PairBackspaceRule(), "echo a|", KeyBackspace, nil)
	assert.False(t, ok)
}

func TestToggleQuote_Cycle(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"word to single", "echo hel|lo", "echo 'hello'|"},
		{"single to double", "echo 'hel|lo'", `echo "hello"|`},
		{"double to bare", `echo "hel|lo"`, "echo hello|"},
		{"cursor at word end", "echo hello|", "echo 'hello'|"},
		{"variable nested in string targets the string", `echo "a $|b"`, "echo a $b|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, applyMarked(t, ToggleQuoteRule(), tt.input, KeyToggleQuote))
		})
	}
}

func TestToggleQuote_AlertsBetweenTokens(t *testing.T) {
	st := LineState{Text: []rune("a  b"), Cursor: 2}
	op, ok := ToggleQuoteRule().Handler(st, KeyToggleQuote, Tokenize(st.Text))
	require.True(t, ok)
	assert.True(t, op.Alert)
}

func TestExpandAlias_ReplacesCommandWord(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "ll" {
			return "ls -la", true
		}
		return "", false
	}

	assert.Equal(t, "ls -la|", applyMarked(t, ExpandAliasRule(lookup), "ll|", KeyExpandAlias))
	assert.Equal(t, "ls -la /tmp|", applyMarked(t, ExpandAliasRule(lookup), "ll /tmp|", KeyExpandAlias))
}

func TestExpandAlias_TargetsStatementUnderCursor(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "ll" {
			return "ls -la", true
		}
		return "", false
	}

	// Cursor in the second pipeline stage expands that stage's command.
	assert.Equal(t, "cat f ; ls -la|", applyMarked(t, ExpandAliasRule(lookup), "cat f ; ll|", KeyExpandAlias))
}

func TestExpandAlias_AlertsWhenNotAnAlias(t *testing.T) {
	lookup := func(string) (string, bool) { return "", false }
	op, ok := runRule(t, ExpandAliasRule(lookup), "ls|", KeyExpandAlias, nil)
	require.True(t, ok)
	assert.True(t, op.Alert)
}

func TestApply_MoveAndNoOp(t *testing.T) {
	st := LineState{Text: []rune("abc"), Cursor: 1}
	out := Apply(st, Op{Kind: OpMove, Cursor: 3})
	assert.Equal(t, "abc", string(out.Text))
	assert.Equal(t, 3, out.Cursor)

	out = Apply(st, noOp)
	assert.Equal(t, st.Cursor, out.Cursor)
}
