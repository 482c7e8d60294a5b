package session

import "sparqlx/canvas"

// Mode is the pane holding focus. ModeNone means no pane is focused.
type Mode int

const (
	ModeNone Mode = iota
	ModeURL
	ModeQuery
	ModeSubmit
	ModeOutput
)

// panes are tested in this order
var modeOrder = []Mode{ModeURL, ModeQuery, ModeSubmit, ModeOutput}

func (m Mode) String() string {
	switch m {
	case ModeURL:
		return "url"
	case ModeQuery:
		return "query"
	case ModeSubmit:
		return "submit"
	case ModeOutput:
		return "output"
	default:
		return "none"
	}
}

// Point is a pointer sample in screen cells.
type Point struct {
	Row int
	Col int
}

// Resolve returns the pane containing p. Each pane loses a one-cell margin
// first, so a pointer on a border focuses nothing.
func Resolve(p Point, panes map[Mode]canvas.Rect) Mode {
	for _, m := range modeOrder {
		r, ok := panes[m]
		if ok && r.Shrink(1).Contains(p.Col, p.Row) {
			return m
		}
	}
	return ModeNone
}
