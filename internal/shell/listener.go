package shell

import (
	"fmt"
	"os"
	"unicode"

	"dotshell/internal/editing"
	"dotshell/internal/services"
)

// EditingListener bridges the readline keystroke stream to the editing rules
// and the key bindings. Readline invokes OnChange after its own default
// handling has already run, so the listener keeps a snapshot of the buffer
// from before the keystroke: that snapshot is the state the rules reason
// about, and returning ok=true replaces whatever the default handling did.
type EditingListener struct {
	dispatcher *editing.Dispatcher

	prevLine []rune
	prevPos  int
}

// NewEditingListener creates a listener driving the given dispatcher.
func NewEditingListener(dispatcher *editing.Dispatcher) *EditingListener {
	return &EditingListener{dispatcher: dispatcher}
}

// Reset clears the buffer snapshot. Called after each accepted line so a
// fresh prompt starts from an empty pre-state.
func (l *EditingListener) Reset() {
	l.prevLine = nil
	l.prevPos = 0
}

// AcceptedLine returns the buffer as it stood when the line was accepted.
// The host passes it to ProcessLine so the system shell sees the exact
// typed text instead of a rejoin of ishell's split arguments.
func (l *EditingListener) AcceptedLine() string {
	return string(l.prevLine)
}

// OnChange implements the readline Listener interface. It's called on every
// keystroke with the buffer as the default handling left it.
func (l *EditingListener) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	pre := editing.LineState{Text: l.prevLine, Cursor: l.prevPos}

	// Whole-line bindings run against the pre-keystroke buffer and leave
	// it untouched, undoing whatever readline's default for the key did.
	if bindingService, err := services.GetGlobalBindingService(); err == nil {
		if _, bound := bindingService.Lookup(key); bound && !l.dispatcher.Bound(key) {
			bindingService.Trigger(key, pre.Text)
			l.remember(pre.Text, pre.Cursor)
			return pre.Text, pre.Cursor, true
		}
	}

	if !l.dispatcher.Bound(key) {
		l.remember(line, pos)
		return line, pos, false
	}

	// Readline also delivers keystrokes from other input modes, incremental
	// history search included. A trigger only dispatches when the host
	// applied it to the snapshot the way plain editing would; anything else
	// passes through so a search prompt never mutates the edit buffer.
	if !hostEdited(pre, line, pos, key) {
		l.remember(line, pos)
		return line, pos, false
	}

	op := l.dispatcher.Dispatch(pre, key)
	if op.Alert {
		fmt.Fprint(os.Stderr, "\a")
	}
	if op.Kind == editing.OpNone {
		// No rule claimed the key; the default handling stands.
		l.remember(line, pos)
		return line, pos, false
	}

	next := editing.Apply(pre, op)
	l.remember(next.Text, next.Cursor)
	return next.Text, next.Cursor, true
}

// hostEdited reports whether the post-keystroke buffer is what readline's
// plain editing would produce from the snapshot: a self-insert for printable
// keys, a one-rune deletion for backspace, an unchanged length for control
// keys.
func hostEdited(pre editing.LineState, line []rune, pos int, key rune) bool {
	switch {
	case key == editing.KeyBackspace:
		return deletedBefore(pre, line, pos)
	case unicode.IsPrint(key):
		return selfInserted(pre, line, pos, key)
	default:
		return len(line) == len(pre.Text)
	}
}

// selfInserted reports whether line is pre with key inserted at the cursor.
func selfInserted(pre editing.LineState, line []rune, pos int, key rune) bool {
	cur := pre.Cursor
	if pos != cur+1 || len(line) != len(pre.Text)+1 || line[cur] != key {
		return false
	}
	return string(line[:cur]) == string(pre.Text[:cur]) &&
		string(line[cur+1:]) == string(pre.Text[cur:])
}

// deletedBefore reports whether line is pre with the rune before the cursor
// removed.
func deletedBefore(pre editing.LineState, line []rune, pos int) bool {
	cur := pre.Cursor
	if cur == 0 || pos != cur-1 || len(line) != len(pre.Text)-1 {
		return false
	}
	return string(line[:pos]) == string(pre.Text[:pos]) &&
		string(line[pos:]) == string(pre.Text[cur:])
}

// remember stores the buffer snapshot the next keystroke will treat as its
// pre-state.
func (l *EditingListener) remember(line []rune, pos int) {
	l.prevLine = append(l.prevLine[:0], line...)
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.prevLine) {
		pos = len(l.prevLine)
	}
	l.prevPos = pos
}
