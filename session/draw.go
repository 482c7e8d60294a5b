package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"sparqlx/buffer"
	"sparqlx/canvas"
	"sparqlx/client"
	"sparqlx/results"
	"sparqlx/sparql"
)

// Canvas is what a frame is painted on. canvas.Screen implements it.
type Canvas interface {
	Size() canvas.Rect
	Split(area canvas.Rect, dir canvas.Direction, sizes ...canvas.Size) []canvas.Rect
	Pane(area canvas.Rect, title string, highlight bool) canvas.Rect
	Editor(area canvas.Rect, b *buffer.Buffer, focused bool)
	List(area canvas.Rect, items []string, selected int)
	Table(area canvas.Rect, t canvas.Table)
	Text(area canvas.Rect, text string, tone canvas.Tone)
}

const helpText = `Keys
  Ctrl-R, F5      run the query
  Enter           run (in the endpoint field)
  Ctrl-F          format the query
  Esc             cancel a running query
  Tab, Shift-Tab  move between endpoint, query and results
  Ctrl-P, Ctrl-N  older / newer query from history
  Up, Down, j, k  select a result row
  Home, End       first / last row
  F1              toggle this help
  Ctrl-Q, Ctrl-C  quit

Click a pane to focus it, the Run box to submit, or a history entry to load it.`

// Draw lays out the panes, resolves focus against them and paints the frame.
func (s *State) Draw(c Canvas) {
	rows := c.Split(c.Size(), canvas.Vertical, canvas.Fixed(3), canvas.Ratio(2), canvas.Ratio(3), canvas.Fixed(1))
	middle := c.Split(rows[1], canvas.Horizontal, canvas.Ratio(3), canvas.Ratio(1))
	side := c.Split(middle[1], canvas.Vertical, canvas.Fixed(3), canvas.Ratio(1), canvas.Ratio(1))

	s.panes = map[Mode]canvas.Rect{
		ModeURL:    rows[0],
		ModeQuery:  middle[0],
		ModeSubmit: side[0],
		ModeOutput: rows[2],
	}
	if s.want != ModeNone {
		x, y := s.panes[s.want].Center()
		s.pointer = Point{Row: y, Col: x}
		s.want = ModeNone
	}
	s.mode = Resolve(s.pointer, s.panes)
	if s.clicked && s.mode == ModeSubmit {
		s.submit = true
	}
	s.clicked = false
	if s.submit {
		s.mode = ModeSubmit
	}

	inner := c.Pane(rows[0], "Endpoint", s.mode == ModeURL)
	c.Editor(inner, s.URL, s.mode == ModeURL)

	inner = c.Pane(middle[0], "Query", s.mode == ModeQuery)
	c.Editor(inner, s.Query, s.mode == ModeQuery)

	inner = c.Pane(side[0], "Run", s.mode == ModeSubmit)
	if s.Pending() {
		c.Text(inner, fmt.Sprintf("Running %ds", s.elapsed()), canvas.ToneWarn)
	} else {
		c.Text(inner, "Ctrl-R", canvas.ToneMuted)
	}

	s.drawHistory(c, side[1])

	inner = c.Pane(side[2], "Row", false)
	detail, tone := s.detail()
	c.Text(inner, detail, tone)

	s.drawOutput(c, rows[2])

	bar := c.Split(rows[3], canvas.Horizontal, canvas.Ratio(1), canvas.Fixed(16))
	c.Text(bar[0], s.status, s.statusTone)
	c.Text(bar[1], "● "+s.Probe.String(), probeTone(s.Probe))
}

func (s *State) drawHistory(c Canvas, area canvas.Rect) {
	title := "History"
	if n := s.History.Len(); n > 0 {
		title = fmt.Sprintf("History (%d)", n)
	}
	inner := c.Pane(area, title, false)
	s.historyArea = inner
	// the list scrolls just far enough to show the current entry
	s.historyTop = 0
	if s.histPos >= inner.H {
		s.historyTop = s.histPos - inner.H + 1
	}
	c.List(inner, s.History.Queries(), s.histPos)
}

func (s *State) drawOutput(c Canvas, area canvas.Rect) {
	title := "Results"
	if s.Output != nil {
		title = fmt.Sprintf("Results (%d rows)", s.Output.Len())
	}
	inner := c.Pane(area, title, s.mode == ModeOutput)
	if s.help {
		c.Text(inner, helpText, canvas.ToneNormal)
		return
	}

	if s.Pending() {
		msg := fmt.Sprintf("Running query... %ds (Esc to cancel)", s.elapsed())
		inner = s.note(c, inner, msg, canvas.ToneWarn)
	}
	if s.Err != nil {
		inner = s.note(c, inner, errorText(s.Err), canvas.ToneError)
	}
	if s.Output == nil {
		if !s.Pending() && s.Err == nil {
			c.Text(inner, "No results yet. Press Ctrl-R to run the query.", canvas.ToneMuted)
		}
		return
	}
	t := results.Layout(s.Output, inner.W)
	c.Table(inner, canvas.Table{
		Header:   t.Header,
		Widths:   t.Widths,
		Rows:     t.Rows,
		Heights:  t.Heights,
		Selected: s.Selected,
	})
}

// note paints text at the top of area and returns what is left below it.
func (s *State) note(c Canvas, area canvas.Rect, text string, tone canvas.Tone) canvas.Rect {
	h := wrappedHeight(text, area.W)
	if h > area.H {
		h = area.H
	}
	parts := c.Split(area, canvas.Vertical, canvas.Fixed(h), canvas.Ratio(1))
	c.Text(parts[0], text, tone)
	return parts[1]
}

// wrappedHeight estimates the rows text takes when wrapped to width cells.
func wrappedHeight(text string, width int) int {
	if width <= 0 {
		return 0
	}
	h := 0
	for _, line := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(line)
		h += 1 + (max(w, 1)-1)/width
	}
	return h
}

func (s *State) detail() (string, canvas.Tone) {
	if s.Output == nil || s.Selected < 0 || s.Selected >= s.Output.Len() {
		return "No row selected", canvas.ToneMuted
	}
	row := s.Output.Rows[s.Selected]
	var b strings.Builder
	fmt.Fprintf(&b, "Row %d/%d", s.Selected+1, s.Output.Len())
	for _, v := range s.Output.Variables {
		if bnd, ok := row[v]; ok {
			fmt.Fprintf(&b, "\n?%s = %s", v, bnd.NTriples())
		} else {
			fmt.Fprintf(&b, "\n?%s unbound", v)
		}
	}
	return b.String(), canvas.ToneNormal
}

func (s *State) elapsed() int {
	return int(s.now().Sub(s.pendingSince) / time.Second)
}

// errorText renders err for the output pane. A validation failure shows
// the reason for each grammar on its own line.
func errorText(err error) string {
	var verr *sparql.ValidationError
	if errors.As(err, &verr) {
		return "Not a valid query: " + verr.Query + "\nNot a valid update: " + verr.Update
	}
	return err.Error()
}

func probeTone(st client.Status) canvas.Tone {
	switch st {
	case client.StatusConnected:
		return canvas.ToneOK
	case client.StatusServerError:
		return canvas.ToneWarn
	case client.StatusUnreachable:
		return canvas.ToneError
	default:
		return canvas.ToneMuted
	}
}
