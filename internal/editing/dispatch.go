package editing

// Dispatcher routes a keystroke to the rules bound to it. Rules bound to the
// same key are evaluated in binding order; the first rule that claims the
// keystroke wins. A key with no applicable rule yields a plain no-op so the
// host's default handling runs.
type Dispatcher struct {
	byKey map[rune][]Rule
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{byKey: make(map[rune][]Rule)}
}

// Bind appends rules to the chain for key. Binding order is priority order.
func (d *Dispatcher) Bind(key rune, rules ...Rule) {
	d.byKey[key] = append(d.byKey[key], rules...)
}

// Bound reports whether any rule is bound to key.
func (d *Dispatcher) Bound(key rune) bool {
	return len(d.byKey[key]) > 0
}

// Rules returns the rule names bound to key, in priority order.
func (d *Dispatcher) Rules(key rune) []string {
	names := make([]string, 0, len(d.byKey[key]))
	for _, rule := range d.byKey[key] {
		names = append(names, rule.Name)
	}
	return names
}

// Dispatch tokenizes the line once and walks the rule chain for key.
// The returned op is a no-op when no rule claims the keystroke.
func (d *Dispatcher) Dispatch(st LineState, key rune) Op {
	rules := d.byKey[key]
	if len(rules) == 0 {
		return noOp
	}

	tokens := Tokenize(st.Text)
	for _, rule := range rules {
		if op, ok := rule.Handler(st, key, tokens); ok {
			return op
		}
	}
	return noOp
}

// NewDefaultDispatcher wires the standard rule set: quote and bracket
// pairing on their trigger characters and pair-aware backspace.
// The alias lookup feeds the expand-alias rule, reachable via Dispatch
// on the expandAliasKey sentinel.
func NewDefaultDispatcher(aliasLookup func(string) (string, bool)) *Dispatcher {
	d := NewDispatcher()

	for _, q := range []rune{'\'', '"'} {
		d.Bind(q, SmartQuoteRule())
	}
	for _, open := range []rune{'(', '[', '{'} {
		d.Bind(open, SmartOpenRule())
	}
	for _, closer := range []rune{')', ']', '}'} {
		d.Bind(closer, SmartCloseRule())
	}
	d.Bind(KeyBackspace, PairBackspaceRule())
	d.Bind(KeyToggleQuote, ToggleQuoteRule())
	d.Bind(KeyExpandAlias, ExpandAliasRule(aliasLookup))

	return d
}

// Control keys the default dispatcher binds beyond printable triggers.
const (
	// KeyBackspace is the DEL byte terminals send for backspace.
	KeyBackspace rune = 0x7f
	// KeyToggleQuote is Ctrl+T.
	KeyToggleQuote rune = 0x14
	// KeyExpandAlias is Ctrl+E.
	KeyExpandAlias rune = 0x05
)
