// Package session is the workbench core: the state redrawn every frame and
// the input routing that mutates it.
package session

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"sparqlx/buffer"
	"sparqlx/canvas"
	"sparqlx/client"
	"sparqlx/config"
	"sparqlx/results"
	"sparqlx/sparql"
)

// Request is a query ready to be dispatched.
type Request struct {
	Endpoint string
	Query    string
}

// State is the single source of truth for a session. Only the loop
// goroutine touches it.
type State struct {
	URL    *buffer.Buffer
	Query  *buffer.Buffer
	Output *results.QueryResult
	// Selected is the highlighted output row, -1 for none.
	Selected int
	// Err is the last validation or execution error, shown inline.
	Err error

	History *History
	Probe   client.Status

	status     string
	statusTone canvas.Tone

	pointer Point
	mode    Mode
	submit  bool
	// clicked is a press not yet resolved by Draw
	clicked bool
	// want is a pane to focus once its rectangle is known
	want        Mode
	lastButtons tcell.ButtonMask
	// panes and the history list area from the last frame
	panes       map[Mode]canvas.Rect
	historyArea canvas.Rect
	historyTop  int

	pending      uint64
	pendingSince time.Time

	histPos int
	draft   string

	pasting bool
	help    bool

	formatBeforeSubmit bool
	now                func() time.Time
}

// NewState seeds the editors from cfg.
func NewState(cfg *config.Config) *State {
	return &State{
		URL:                buffer.New(cfg.Endpoint),
		Query:              buffer.New(cfg.Query),
		Selected:           -1,
		History:            NewHistory(cfg.HistorySize),
		status:             keyHelp,
		statusTone:         canvas.ToneMuted,
		panes:              map[Mode]canvas.Rect{},
		histPos:            -1,
		mode:               ModeQuery,
		want:               ModeQuery,
		formatBeforeSubmit: cfg.FormatBeforeSubmit,
		now:                time.Now,
	}
}

const keyHelp = "Ctrl-R Run  Ctrl-F Format  Tab Cycle  Ctrl-P/N History  Esc Cancel  F1 Help  Ctrl-Q Quit"

// Mode is the focus resolved by the last Draw.
func (s *State) Mode() Mode { return s.mode }

// Pending reports whether a request is in flight.
func (s *State) Pending() bool { return s.pending != 0 }

// Endpoint is the trimmed URL buffer.
func (s *State) Endpoint() string { return strings.TrimSpace(s.URL.Text()) }

// Status returns the status bar message.
func (s *State) Status() string { return s.status }

func (s *State) setStatus(tone canvas.Tone, format string, a ...any) {
	s.status = fmt.Sprintf(format, a...)
	s.statusTone = tone
}

// RequestSubmit marks the submit pane as selected until the next
// TakeSubmission.
func (s *State) RequestSubmit() {
	s.submit = true
	s.mode = ModeSubmit
}

// TakeSubmission consumes a pending submit. Focus moves to the output pane.
func (s *State) TakeSubmission() (Request, bool) {
	if !s.submit {
		return Request{}, false
	}
	s.submit = false
	s.focus(ModeOutput)

	query := s.Query.Text()
	if strings.TrimSpace(query) == "" {
		s.setStatus(canvas.ToneWarn, "Nothing to run")
		return Request{}, false
	}
	if s.formatBeforeSubmit {
		out, err := sparql.Format(query)
		if err != nil {
			s.Err = err
			s.setStatus(canvas.ToneError, "Query not sent: it does not parse")
			return Request{}, false
		}
		s.Query.Load(out)
		query = out
	}
	s.History.Add(query)
	s.histPos = -1
	return Request{Endpoint: s.Endpoint(), Query: query}, true
}

// Dispatched records the sequence number of the request now in flight.
func (s *State) Dispatched(seq uint64) {
	s.pending = seq
	s.pendingSince = s.now()
	s.setStatus(canvas.ToneWarn, "Running query...")
}

// Complete applies a finished request. Completions other than the pending
// one are stale and dropped; it reports whether c was applied.
func (s *State) Complete(c client.Completion) bool {
	if s.pending == 0 || c.Seq != s.pending {
		log.Printf("session: dropping stale completion %d (pending %d)", c.Seq, s.pending)
		return false
	}
	s.pending = 0
	if c.Err != nil {
		s.Err = c.Err
		s.setStatus(canvas.ToneError, "Error after %s", c.Elapsed.Round(time.Millisecond))
		log.Printf("session: request %d failed: %v", c.Seq, c.Err)
		return true
	}
	s.Output = c.Result
	s.Selected = -1
	s.Err = nil
	s.setStatus(canvas.ToneOK, "Fetched %d rows in %s", c.Result.Len(), c.Elapsed.Round(time.Millisecond))
	log.Printf("session: request %d returned %d rows", c.Seq, c.Result.Len())
	return true
}

// Cancelled forgets the in-flight request after the dispatcher aborted it.
func (s *State) Cancelled() {
	if s.pending == 0 {
		return
	}
	log.Printf("session: request %d cancelled", s.pending)
	s.pending = 0
	s.setStatus(canvas.ToneWarn, "Request cancelled")
}

func (s *State) SetProbe(st client.Status) {
	if st != s.Probe {
		log.Printf("session: endpoint %s is %s", s.Endpoint(), st)
	}
	s.Probe = st
}

// Format replaces the query with its canonical form.
func (s *State) Format() {
	out, err := sparql.Format(s.Query.Text())
	if err != nil {
		s.Err = err
		s.setStatus(canvas.ToneError, "Query does not parse")
		return
	}
	kind, _ := sparql.Parse(out)
	s.Query.Load(out)
	s.Err = nil
	s.setStatus(canvas.ToneOK, "Formatted %s", kind)
}

// focus moves the pointer sample to the middle of pane m on the next Draw.
func (s *State) focus(m Mode) {
	s.want = m
	s.mode = m
}

// cycle moves focus between the editable panes and the output.
func (s *State) cycle(step int) {
	order := []Mode{ModeURL, ModeQuery, ModeOutput}
	i := -1
	for j, m := range order {
		if m == s.mode {
			i = j
		}
	}
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = len(order) - 1
	default:
		i = (i + step + len(order)) % len(order)
	}
	s.focus(order[i])
}

// recall steps through history: older for step 1, newer for step -1.
// Stepping past the newest entry restores the text being edited before.
func (s *State) recall(step int) {
	n := s.History.Len()
	if n == 0 {
		return
	}
	pos := s.histPos + step
	switch {
	case pos >= n:
		pos = n - 1
	case pos < -1:
		pos = -1
	}
	switch {
	case pos == s.histPos:
	case pos == -1:
		s.histPos = -1
		s.Query.Load(s.draft)
		s.setStatus(canvas.ToneMuted, "Back to the unsaved query")
	default:
		s.load(pos)
	}
}

// load puts history entry i into the query editor, remembering the text it
// replaces if that text was not itself from history.
func (s *State) load(i int) {
	if s.histPos == -1 {
		s.draft = s.Query.Text()
	}
	s.histPos = i
	s.Query.Load(s.History.At(i).Query)
	s.setStatus(canvas.ToneMuted, "History %d/%d", i+1, s.History.Len())
}

func (s *State) selectNext() {
	s.Selected = results.Next(s.Selected, s.Output.Len())
}

func (s *State) selectPrevious() {
	s.Selected = results.Previous(s.Selected, s.Output.Len())
}
