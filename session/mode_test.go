package session

import (
	"testing"

	"sparqlx/canvas"
)

func TestResolve(t *testing.T) {
	panes := map[Mode]canvas.Rect{
		ModeURL:    {X: 0, Y: 0, W: 80, H: 3},
		ModeQuery:  {X: 0, Y: 3, W: 60, H: 10},
		ModeSubmit: {X: 60, Y: 3, W: 20, H: 3},
		ModeOutput: {X: 0, Y: 13, W: 80, H: 10},
	}
	tests := []struct {
		name string
		p    Point
		want Mode
	}{
		{"inside url", Point{Row: 1, Col: 5}, ModeURL},
		{"url top border", Point{Row: 0, Col: 5}, ModeNone},
		{"url left border", Point{Row: 1, Col: 0}, ModeNone},
		{"url bottom border", Point{Row: 2, Col: 5}, ModeNone},
		{"query top border", Point{Row: 3, Col: 5}, ModeNone},
		{"inside query", Point{Row: 4, Col: 1}, ModeQuery},
		{"query right border", Point{Row: 4, Col: 59}, ModeNone},
		{"submit left border", Point{Row: 4, Col: 60}, ModeNone},
		{"inside submit", Point{Row: 4, Col: 61}, ModeSubmit},
		{"inside output", Point{Row: 20, Col: 40}, ModeOutput},
		{"output bottom border", Point{Row: 22, Col: 40}, ModeNone},
		{"outside every pane", Point{Row: 50, Col: 5}, ModeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.p, panes); got != tt.want {
				t.Errorf("Resolve(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestResolveNoPanes(t *testing.T) {
	if got := Resolve(Point{Row: 1, Col: 1}, nil); got != ModeNone {
		t.Errorf("Resolve() with no panes = %v", got)
	}
	tiny := map[Mode]canvas.Rect{ModeURL: {X: 0, Y: 0, W: 2, H: 2}}
	for _, p := range []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		if got := Resolve(p, tiny); got != ModeNone {
			t.Errorf("Resolve(%+v) in a pane with no interior = %v", p, got)
		}
	}
}
