package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Words(t *testing.T) {
	tokens := Tokenize([]rune("git commit -m"))
	require.Len(t, tokens, 3)

	assert.Equal(t, KindWord, tokens[0].Kind)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 3, tokens[0].End)

	assert.Equal(t, KindWord, tokens[1].Kind)
	assert.Equal(t, 4, tokens[1].Start)
	assert.Equal(t, 10, tokens[1].End)

	assert.Equal(t, KindWord, tokens[2].Kind)
	assert.Equal(t, 11, tokens[2].Start)
	assert.Equal(t, 13, tokens[2].End)
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		kind       TokenKind
		terminated bool
	}{
		{"terminated single", "'hello'", KindSingleQuoted, true},
		{"terminated double", `"hello"`, KindDoubleQuoted, true},
		{"unterminated single", "'hello", KindSingleQuoted, false},
		{"unterminated double", `"hello`, KindDoubleQuoted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize([]rune(tt.input))
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.terminated, tokens[0].Terminated)
			assert.Equal(t, 0, tokens[0].Start)
			assert.Equal(t, len(tt.input), tokens[0].End)
		})
	}
}

func TestTokenize_NestedVariableInDoubleQuotes(t *testing.T) {
	line := []rune(`echo "hi $name"`)
	tokens := Tokenize(line)
	require.Len(t, tokens, 2)

	str := tokens[1]
	assert.Equal(t, KindDoubleQuoted, str.Kind)
	require.Len(t, str.Children, 1)

	child := str.Children[0]
	assert.Equal(t, KindVariable, child.Kind)
	assert.Equal(t, "$name", string(line[child.Start:child.End]))
}

func TestTokenize_Variables(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"$HOME", KindVariable},
		{"${HOME}", KindVariable},
		{"${unclosed", KindVariable},
		{"$", KindWord},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]rune(tt.input))
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.kind, tokens[0].Kind)
		})
	}
}

func TestTokenize_OperatorsAndComments(t *testing.T) {
	line := []rune("ls | wc # count")
	tokens := Tokenize(line)
	require.Len(t, tokens, 4)

	assert.Equal(t, KindWord, tokens[0].Kind)
	assert.Equal(t, KindOperator, tokens[1].Kind)
	assert.Equal(t, KindWord, tokens[2].Kind)
	assert.Equal(t, KindComment, tokens[3].Kind)
	assert.Equal(t, len(line), tokens[3].End)
}

func TestTokenize_MultiRuneOperators(t *testing.T) {
	tokens := Tokenize([]rune("a && b"))
	require.Len(t, tokens, 3)
	assert.Equal(t, KindOperator, tokens[1].Kind)
	assert.Equal(t, 2, tokens[1].End-tokens[1].Start)
}

func TestTokenize_ParensAreSingleOperators(t *testing.T) {
	tokens := Tokenize([]rune("(a)"))
	require.Len(t, tokens, 3)
	assert.Equal(t, KindOperator, tokens[0].Kind)
	assert.Equal(t, 1, tokens[0].End-tokens[0].Start)
	assert.Equal(t, KindOperator, tokens[2].Kind)
}

func TestTokenize_EmptyLine(t *testing.T) {
	assert.Empty(t, Tokenize(nil))
	assert.Empty(t, Tokenize([]rune("   ")))
}

func TestTokenAt(t *testing.T) {
	line := []rune(`echo "hi $name" done`)
	tokens := Tokenize(line)

	tok, ok := TokenAt(tokens, 1)
	require.True(t, ok)
	assert.Equal(t, KindWord, tok.Kind)

	// Position inside the nested variable resolves to the innermost token.
	tok, ok = TokenAt(tokens, 11)
	require.True(t, ok)
	assert.Equal(t, KindVariable, tok.Kind)

	// Position in whitespace has no token.
	_, ok = TokenAt(tokens, 4)
	assert.False(t, ok)
}
