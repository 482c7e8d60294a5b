package sparql

import "strings"

const indentUnit = "  "

// printer writes tokens in canonical layout. The parser drives it: tokens are
// written as they are consumed and the grammar decides where lines break.
type printer struct {
	b     strings.Builder
	depth int
	// open is true while the current line holds text.
	open bool
	// glue suppresses the separator before the next token.
	glue bool
}

func (w *printer) word(s string) {
	if !w.open {
		w.b.WriteString(strings.Repeat(indentUnit, w.depth))
		w.open = true
	} else if !w.glue {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
	w.glue = false
}

// attach writes s directly after the previous token.
func (w *printer) attach(s string) {
	w.glue = true
	w.word(s)
}

// stick makes the next token follow without a separator.
func (w *printer) stick() {
	w.glue = true
}

func (w *printer) newline() {
	if w.open {
		w.b.WriteByte('\n')
		w.open = false
	}
	w.glue = false
}

func (w *printer) indent() { w.depth++ }

func (w *printer) dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

func (w *printer) String() string {
	return w.b.String()
}
