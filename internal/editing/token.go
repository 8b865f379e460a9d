// Package editing implements dotshell's line-editing rules: small, stateless
// transformations of an in-progress command line, keyed to the characters the
// user types. Each rule inspects the buffer, the cursor, the optional
// selection, and a token list produced by Tokenize, and yields a single edit
// operation or nothing. Rules never fail; input that a rule cannot handle
// falls through to the next rule or to an alert.
package editing

// TokenKind classifies a span of the command line.
type TokenKind int

const (
	// KindWord is a bare word: command names, arguments, flags.
	KindWord TokenKind = iota
	// KindSingleQuoted is a single-quoted string, including its quotes.
	KindSingleQuoted
	// KindDoubleQuoted is a double-quoted string, including its quotes.
	KindDoubleQuoted
	// KindVariable is a $name or ${name} reference.
	KindVariable
	// KindOperator is a shell operator: | & ; < > ( ).
	KindOperator
	// KindComment is a # comment running to the end of the line.
	KindComment
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindSingleQuoted:
		return "single-quoted"
	case KindDoubleQuoted:
		return "double-quoted"
	case KindVariable:
		return "variable"
	case KindOperator:
		return "operator"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Token is a half-open span [Start, End) of the line with a kind.
// Double-quoted strings may carry nested variable tokens in Children;
// child offsets are absolute, not relative to the parent.
type Token struct {
	Start    int
	End      int
	Kind     TokenKind
	Children []Token

	// Terminated reports whether a quoted string saw its closing quote.
	// Always true for non-string kinds.
	Terminated bool
}

// Contains reports whether the position falls inside the token span.
func (t Token) Contains(pos int) bool {
	return pos >= t.Start && pos < t.End
}

// Tokenize scans the line into a flat list of tokens in a single linear pass.
// Malformed input is not an error: an unterminated string tokenizes to the
// end of the line with Terminated=false.
func Tokenize(line []rune) []Token {
	var tokens []Token
	i := 0
	n := len(line)

	for i < n {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			tokens = append(tokens, Token{Start: i, End: n, Kind: KindComment, Terminated: true})
			i = n
		case c == '\'':
			tok := scanSingleQuoted(line, i)
			tokens = append(tokens, tok)
			i = tok.End
		case c == '"':
			tok := scanDoubleQuoted(line, i)
			tokens = append(tokens, tok)
			i = tok.End
		case c == '$':
			tok := scanVariable(line, i)
			tokens = append(tokens, tok)
			i = tok.End
		case isOperator(c):
			start := i
			for i < n && isOperator(line[i]) && line[i] != '(' && line[i] != ')' {
				i++
			}
			if i == start {
				// Parens are always single-rune operators.
				i++
			}
			tokens = append(tokens, Token{Start: start, End: i, Kind: KindOperator, Terminated: true})
		default:
			start := i
			for i < n && !isWordBreak(line[i]) {
				i++
			}
			tokens = append(tokens, Token{Start: start, End: i, Kind: KindWord, Terminated: true})
		}
	}

	return tokens
}

func scanSingleQuoted(line []rune, start int) Token {
	for i := start + 1; i < len(line); i++ {
		if line[i] == '\'' {
			return Token{Start: start, End: i + 1, Kind: KindSingleQuoted, Terminated: true}
		}
	}
	return Token{Start: start, End: len(line), Kind: KindSingleQuoted}
}

func scanDoubleQuoted(line []rune, start int) Token {
	var children []Token
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++ // skip escaped rune
		case '$':
			child := scanVariable(line, i)
			children = append(children, child)
			i = child.End - 1
		case '"':
			return Token{Start: start, End: i + 1, Kind: KindDoubleQuoted, Children: children, Terminated: true}
		}
	}
	return Token{Start: start, End: len(line), Kind: KindDoubleQuoted, Children: children}
}

func scanVariable(line []rune, start int) Token {
	i := start + 1
	n := len(line)

	if i < n && line[i] == '{' {
		for i++; i < n; i++ {
			if line[i] == '}' {
				return Token{Start: start, End: i + 1, Kind: KindVariable, Terminated: true}
			}
		}
		return Token{Start: start, End: n, Kind: KindVariable}
	}

	for i < n && isIdentRune(line[i]) {
		i++
	}
	if i == start+1 {
		// A lone '$' is just a word character.
		for i < n && !isWordBreak(line[i]) {
			i++
		}
		return Token{Start: start, End: i, Kind: KindWord, Terminated: true}
	}
	return Token{Start: start, End: i, Kind: KindVariable, Terminated: true}
}

// TokenAt returns the innermost token containing pos, descending into nested
// tokens. The second result is false when pos falls between tokens.
func TokenAt(tokens []Token, pos int) (Token, bool) {
	for _, tok := range tokens {
		if !tok.Contains(pos) {
			continue
		}
		for _, child := range tok.Children {
			if child.Contains(pos) {
				return child, true
			}
		}
		return tok, true
	}
	return Token{}, false
}

// enclosingString returns the string or comment token whose span encloses
// pos, meaning pos is past the opening delimiter. Typing at the very start of
// a string token is typing outside it. Comments and unterminated strings are
// open on the right: the end of the line is still inside them.
func enclosingString(tokens []Token, pos int) (Token, bool) {
	for _, tok := range tokens {
		switch tok.Kind {
		case KindComment:
			if pos > tok.Start {
				return tok, true
			}
		case KindSingleQuoted, KindDoubleQuoted:
			if pos <= tok.Start {
				continue
			}
			if pos < tok.End || !tok.Terminated && pos <= tok.End {
				return tok, true
			}
		}
	}
	return Token{}, false
}

func isOperator(c rune) bool {
	switch c {
	case '|', '&', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

func isWordBreak(c rune) bool {
	return c == ' ' || c == '\t' || c == '\'' || c == '"' || c == '#' || isOperator(c)
}

func isIdentRune(c rune) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
