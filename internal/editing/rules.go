package editing

// Handler is the signature shared by all editing rules. A handler inspects
// the line state before the typed key has been inserted, together with the
// key and the pre-parsed token list, and either claims the keystroke by
// returning an op and true, or declines with false so the next rule (or the
// host's default self-insert) runs.
type Handler func(st LineState, key rune, tokens []Token) (Op, bool)

// Rule is a named handler. Names are stable identifiers used in binding
// listings and debug logs.
type Rule struct {
	Name    string
	Handler Handler
}

// pairs maps opening delimiters to their closers.
var pairs = map[rune]rune{
	'(':  ')',
	'[':  ']',
	'{':  '}',
	'"':  '"',
	'\'': '\'',
}

// SmartQuoteRule pairs, closes, and steps over quote characters.
//
//   - With an active selection, the selection is wrapped in quotes.
//   - With the cursor on the closing quote of a terminated string of the
//     same kind, the cursor steps over it instead of inserting.
//   - Inside a comment, an unterminated string, or a string of the other
//     quote kind, the rule declines and the quote self-inserts (which is
//     what closes an odd number of quotes).
//   - Otherwise a quote pair is inserted with the cursor between the quotes.
func SmartQuoteRule() Rule {
	return Rule{Name: "smart-quote", Handler: smartQuote}
}

func smartQuote(st LineState, key rune, tokens []Token) (Op, bool) {
	if key != '\'' && key != '"' {
		return noOp, false
	}
	cur := st.clampedCursor()

	if st.hasSelection() {
		return wrapSelection(st, key, key), true
	}

	if encl, ok := enclosingString(tokens, cur); ok {
		sameKind := encl.Kind == KindSingleQuoted && key == '\'' ||
			encl.Kind == KindDoubleQuoted && key == '"'
		if sameKind && encl.Terminated && cur == encl.End-1 {
			return Op{Kind: OpMove, Cursor: cur + 1}, true
		}
		// Literal insert: inside comments, the other quote kind, or an
		// unterminated string where this keystroke is the closer.
		return noOp, false
	}

	return insertAt(cur, string([]rune{key, key}), cur+1), true
}

// SmartOpenRule inserts bracket pairs and wraps selections.
func SmartOpenRule() Rule {
	return Rule{Name: "smart-open", Handler: smartOpen}
}

func smartOpen(st LineState, key rune, tokens []Token) (Op, bool) {
	if key != '(' && key != '[' && key != '{' {
		return noOp, false
	}
	cur := st.clampedCursor()

	if st.hasSelection() {
		return wrapSelection(st, key, pairs[key]), true
	}

	if _, ok := enclosingString(tokens, cur); ok {
		return noOp, false
	}

	return insertAt(cur, string([]rune{key, pairs[key]}), cur+1), true
}

// SmartCloseRule steps over a matching closer under the cursor rather than
// inserting a duplicate.
func SmartCloseRule() Rule {
	return Rule{Name: "smart-close", Handler: smartClose}
}

func smartClose(st LineState, key rune, _ []Token) (Op, bool) {
	if key != ')' && key != ']' && key != '}' {
		return noOp, false
	}
	cur := st.clampedCursor()

	if cur < len(st.Text) && st.Text[cur] == key {
		return Op{Kind: OpMove, Cursor: cur + 1}, true
	}
	return noOp, false
}

// PairBackspaceRule deletes both halves of an empty delimiter pair when
// backspacing between them. Backspace at the start of the line alerts.
func PairBackspaceRule() Rule {
	return Rule{Name: "pair-backspace", Handler: pairBackspace}
}

func pairBackspace(st LineState, _ rune, _ []Token) (Op, bool) {
	cur := st.clampedCursor()
	if cur == 0 {
		return alertOp, true
	}

	if cur < len(st.Text) {
		if closer, ok := pairs[st.Text[cur-1]]; ok && st.Text[cur] == closer {
			return Op{Kind: OpDelete, Start: cur - 1, End: cur + 1, Cursor: cur - 1}, true
		}
	}
	return noOp, false
}

// ToggleQuoteRule cycles the quoting of the token under the cursor:
// bare word -> 'single quoted' -> "double quoted" -> bare word.
func ToggleQuoteRule() Rule {
	return Rule{Name: "toggle-quote", Handler: toggleQuote}
}

func toggleQuote(st LineState, _ rune, tokens []Token) (Op, bool) {
	cur := st.clampedCursor()

	tok, ok := tokenForCursor(tokens, cur)
	if !ok {
		return alertOp, true
	}

	text := st.Text[tok.Start:tok.End]
	var replacement string
	switch tok.Kind {
	case KindWord, KindVariable:
		replacement = "'" + string(text) + "'"
	case KindSingleQuoted:
		replacement = "\"" + string(stripQuotes(text, '\'')) + "\""
	case KindDoubleQuoted:
		replacement = string(stripQuotes(text, '"'))
	default:
		return alertOp, true
	}

	return replaceRange(tok.Start, tok.End, replacement, tok.Start+len([]rune(replacement))), true
}

// ExpandAliasRule replaces the command-position word of the statement under
// the cursor with its alias expansion. The lookup is injected so the rule
// itself stays stateless.
func ExpandAliasRule(lookup func(name string) (string, bool)) Rule {
	return Rule{
		Name: "expand-alias",
		Handler: func(st LineState, _ rune, tokens []Token) (Op, bool) {
			return expandAlias(st, tokens, lookup)
		},
	}
}

func expandAlias(st LineState, tokens []Token, lookup func(string) (string, bool)) (Op, bool) {
	cur := st.clampedCursor()

	cmd, ok := commandWordFor(tokens, cur)
	if !ok {
		return alertOp, true
	}

	name := string(st.Text[cmd.Start:cmd.End])
	expansion, ok := lookup(name)
	if !ok || expansion == name {
		return alertOp, true
	}

	after := cur
	delta := len([]rune(expansion)) - (cmd.End - cmd.Start)
	switch {
	case cur >= cmd.End:
		after = cur + delta
	case cur > cmd.Start:
		after = cmd.Start + len([]rune(expansion))
	}

	return replaceRange(cmd.Start, cmd.End, expansion, after), true
}

// wrapSelection surrounds the active selection with the given delimiters and
// places the cursor just past the closer.
func wrapSelection(st LineState, open, closer rune) Op {
	sel := *st.Selection
	end := sel.Start + sel.Len
	inner := string(st.Text[sel.Start:end])
	return replaceRange(sel.Start, end, string(open)+inner+string(closer), end+2)
}

// tokenForCursor finds the top-level token under the cursor, favoring the
// token the cursor touches on its left edge so a cursor sitting just past a
// word still targets that word. Top-level, not innermost: a variable nested
// in a double-quoted string quotes as part of that string.
func tokenForCursor(tokens []Token, cur int) (Token, bool) {
	for _, tok := range tokens {
		if tok.Contains(cur) && tok.Kind != KindOperator && tok.Kind != KindComment {
			return tok, true
		}
	}
	for _, tok := range tokens {
		if tok.End == cur && tok.Kind != KindOperator && tok.Kind != KindComment {
			return tok, true
		}
	}
	return Token{}, false
}

// commandWordFor returns the command-position word of the statement
// containing the cursor: the first word of the line, or the first word after
// the last statement separator before the cursor.
func commandWordFor(tokens []Token, cur int) (Token, bool) {
	var cmd Token
	found := false
	atCommand := true

	for _, tok := range tokens {
		switch tok.Kind {
		case KindOperator:
			if tok.Start >= cur && found {
				return cmd, true
			}
			atCommand = true
		case KindWord:
			if atCommand {
				cmd = tok
				found = true
				atCommand = false
			}
		default:
			atCommand = false
		}
	}
	return cmd, found
}

// stripQuotes removes a leading and, when present, trailing quote rune.
func stripQuotes(text []rune, quote rune) []rune {
	if len(text) == 0 || text[0] != quote {
		return text
	}
	text = text[1:]
	if len(text) > 0 && text[len(text)-1] == quote {
		text = text[:len(text)-1]
	}
	return text
}
