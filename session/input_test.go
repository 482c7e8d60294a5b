package session

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"sparqlx/canvas"
)

func click(st *State, x, y int) {
	st.HandleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	st.HandleMouse(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func clickIn(st *State, r canvas.Rect) {
	x, y := r.Center()
	click(st, x, y)
}

func TestClickFocusesPane(t *testing.T) {
	st := newTestState(t)
	draw(st)

	url := st.panes[ModeURL]
	clickIn(st, url)
	draw(st)
	if st.Mode() != ModeURL {
		t.Fatalf("Mode() = %v, want url", st.Mode())
	}

	// on the border nothing is focused and keys go nowhere
	click(st, url.X, url.Y)
	draw(st)
	if st.Mode() != ModeNone {
		t.Fatalf("Mode() on a border = %v", st.Mode())
	}
	before := st.URL.Text() + st.Query.Text()
	typeText(st, "xyz")
	if st.URL.Text()+st.Query.Text() != before {
		t.Error("typing with no focus edited a buffer")
	}
}

func TestClickSubmit(t *testing.T) {
	st := newTestState(t)
	draw(st)
	clickIn(st, st.panes[ModeSubmit])
	if _, ok := st.TakeSubmission(); ok {
		t.Fatal("click submitted before the frame resolved it")
	}
	draw(st)
	if st.Mode() != ModeSubmit {
		t.Errorf("Mode() = %v, want submit", st.Mode())
	}
	req, ok := st.TakeSubmission()
	if !ok {
		t.Fatal("click on Run did not submit")
	}
	if req.Query != "select * where { ?s ?p ?o } limit 1" {
		t.Errorf("Query = %q", req.Query)
	}
	draw(st)
	if st.Mode() != ModeOutput {
		t.Errorf("Mode() = %v, want output", st.Mode())
	}
	if _, ok := st.TakeSubmission(); ok {
		t.Error("Run pane submitted twice")
	}
}

func TestClickLeavesModeToDraw(t *testing.T) {
	st := newTestState(t)
	draw(st)
	for _, m := range []Mode{ModeURL, ModeSubmit, ModeOutput} {
		clickIn(st, st.panes[m])
		if st.Mode() != ModeQuery {
			t.Fatalf("click on %v changed Mode() to %v before Draw", m, st.Mode())
		}
		// a press that is moved off the Run pane before the frame does not submit
		click(st, st.panes[ModeQuery].X+2, st.panes[ModeQuery].Y+2)
	}
	draw(st)
	if st.Mode() != ModeQuery {
		t.Errorf("Mode() = %v, want query", st.Mode())
	}
	if _, ok := st.TakeSubmission(); ok {
		t.Error("a superseded press on Run submitted")
	}
}

func TestHeldButtonIsOnePress(t *testing.T) {
	st := newTestState(t)
	draw(st)
	x, y := st.panes[ModeURL].Center()
	st.HandleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	draw(st)
	// dragging with the button held does not move the pointer
	qx, qy := st.panes[ModeQuery].Center()
	st.HandleMouse(tcell.NewEventMouse(qx, qy, tcell.Button1, tcell.ModNone))
	draw(st)
	if st.Mode() != ModeURL {
		t.Errorf("Mode() = %v, want url", st.Mode())
	}
}

func TestClickHistoryEntry(t *testing.T) {
	st := newTestState(t)
	st.History.Add("ASK {}")
	st.History.Add("SELECT * WHERE { ?s ?p ?o }")
	st.Query.Load("draft")
	draw(st)

	area := st.historyArea
	click(st, area.X+1, area.Y+1)
	if got := st.Query.Text(); got != "ASK {}" {
		t.Fatalf("query = %q", got)
	}
	draw(st)
	if st.Mode() != ModeQuery {
		t.Errorf("Mode() = %v, want query", st.Mode())
	}

	click(st, area.X+1, area.Y+2)
	if got := st.Query.Text(); got != "ASK {}" {
		t.Errorf("click below the last entry loaded %q", got)
	}

	st.HandleKey(ctrlKey('n'))
	st.HandleKey(ctrlKey('n'))
	if got := st.Query.Text(); got != "draft" {
		t.Errorf("query after walking back = %q", got)
	}
}

func TestWheelMovesSelection(t *testing.T) {
	st := newTestState(t)
	st.Output = sampleResult()
	draw(st)

	st.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if st.Selected != -1 {
		t.Error("wheel moved the selection while the query had focus")
	}

	clickIn(st, st.panes[ModeOutput])
	draw(st)
	st.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	st.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if st.Selected != 1 {
		t.Errorf("Selected = %d, want 1", st.Selected)
	}
	st.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if st.Selected != 0 {
		t.Errorf("Selected = %d, want 0", st.Selected)
	}
	draw(st)
	if st.Mode() != ModeOutput {
		t.Error("wheel events moved the pointer")
	}
}

func TestPastedTabInQuery(t *testing.T) {
	st := newTestState(t)
	st.Query.Load("")
	draw(st)
	st.HandlePaste(true)
	st.HandleKey(key(tcell.KeyTab))
	typeText(st, "x")
	st.HandlePaste(false)
	if got := st.Query.Text(); got != "\tx" {
		t.Errorf("query = %q", got)
	}
	draw(st)
	if st.Mode() != ModeQuery {
		t.Errorf("pasted tab moved focus to %v", st.Mode())
	}
}
