package editing

// Selection is an active selection range over the line buffer.
// Len is never negative; a zero-length selection is treated as none.
type Selection struct {
	Start int
	Len   int
}

// LineState is the read-only input to every editing rule: the in-progress
// command line, the cursor offset, and the optional selection. The line
// buffer itself is owned by the readline host; rules describe changes to it
// as Ops and never mutate it in place.
type LineState struct {
	Text      []rune
	Cursor    int
	Selection *Selection
}

// hasSelection reports whether a non-empty selection is active.
func (st LineState) hasSelection() bool {
	return st.Selection != nil && st.Selection.Len > 0
}

// clampedCursor returns the cursor clamped into [0, len(Text)]. The host
// keeps the cursor in bounds; the clamp covers hosts that do not.
func (st LineState) clampedCursor() int {
	if st.Cursor < 0 {
		return 0
	}
	if st.Cursor > len(st.Text) {
		return len(st.Text)
	}
	return st.Cursor
}

// OpKind identifies the shape of an edit operation.
type OpKind int

const (
	// OpNone makes no change; Alert distinguishes "nothing to do" from
	// "refused" (ring the bell).
	OpNone OpKind = iota
	// OpInsert inserts Text at Start.
	OpInsert
	// OpDelete removes the range [Start, End).
	OpDelete
	// OpReplace substitutes Text for the range [Start, End).
	OpReplace
	// OpMove moves the cursor to Cursor without changing the buffer.
	OpMove
)

// Op is the single edit operation a rule yields. Cursor is the cursor
// position after the operation has been applied.
type Op struct {
	Kind   OpKind
	Start  int
	End    int
	Text   string
	Cursor int
	Alert  bool
}

// noOp is the shared "not applicable" result.
var noOp = Op{Kind: OpNone}

// alertOp is the shared "refused, ring the bell" result.
var alertOp = Op{Kind: OpNone, Alert: true}

// insertAt builds an insert op placing the cursor at after.
func insertAt(pos int, text string, after int) Op {
	return Op{Kind: OpInsert, Start: pos, Text: text, Cursor: after}
}

// replaceRange builds a replace op for [start, end) placing the cursor at after.
func replaceRange(start, end int, text string, after int) Op {
	return Op{Kind: OpReplace, Start: start, End: end, Text: text, Cursor: after}
}

// Apply executes op against st and returns the resulting line state.
// The dispatcher and the tests use it; the readline glue applies ops to the
// host buffer directly.
func Apply(st LineState, op Op) LineState {
	text := st.Text
	switch op.Kind {
	case OpInsert:
		out := make([]rune, 0, len(text)+len(op.Text))
		out = append(out, text[:op.Start]...)
		out = append(out, []rune(op.Text)...)
		out = append(out, text[op.Start:]...)
		return LineState{Text: out, Cursor: op.Cursor}
	case OpDelete:
		out := make([]rune, 0, len(text)-(op.End-op.Start))
		out = append(out, text[:op.Start]...)
		out = append(out, text[op.End:]...)
		return LineState{Text: out, Cursor: op.Cursor}
	case OpReplace:
		out := make([]rune, 0, len(text))
		out = append(out, text[:op.Start]...)
		out = append(out, []rune(op.Text)...)
		out = append(out, text[op.End:]...)
		return LineState{Text: out, Cursor: op.Cursor}
	case OpMove:
		return LineState{Text: text, Cursor: op.Cursor}
	default:
		return st
	}
}
