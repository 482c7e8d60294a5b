package session

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"sparqlx/buffer"
)

// Command tells the loop what to do after an event.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdCancel
)

// ctrl matches Ctrl+r whether the terminal reports a control key or a rune
// with the control modifier.
func ctrl(ev *tcell.EventKey, r rune) bool {
	if ev.Key() == tcell.KeyCtrlA+tcell.Key(r-'a') {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(ev.Rune()) == r
}

// HandleKey applies a key press.
func (s *State) HandleKey(ev *tcell.EventKey) Command {
	switch {
	case ctrl(ev, 'q'), ctrl(ev, 'c'):
		return CmdQuit
	case ctrl(ev, 'r'), ev.Key() == tcell.KeyF5:
		s.RequestSubmit()
		return CmdNone
	case ctrl(ev, 'f'):
		s.Format()
		return CmdNone
	case ctrl(ev, 'p'):
		s.recall(1)
		return CmdNone
	case ctrl(ev, 'n'):
		s.recall(-1)
		return CmdNone
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if s.help {
			s.help = false
			return CmdNone
		}
		if s.Pending() {
			return CmdCancel
		}
		return CmdNone
	case tcell.KeyF1:
		s.help = !s.help
		return CmdNone
	case tcell.KeyBacktab:
		s.cycle(-1)
		return CmdNone
	case tcell.KeyTab:
		if s.pasting && s.mode == ModeQuery {
			s.Query.InsertChar('\t')
			return CmdNone
		}
		s.cycle(1)
		return CmdNone
	}

	switch s.mode {
	case ModeURL:
		if ev.Key() == tcell.KeyEnter {
			if !s.pasting {
				s.RequestSubmit()
			}
			return CmdNone
		}
		edit(s.URL, ev)
	case ModeQuery:
		if ev.Key() == tcell.KeyEnter {
			s.Query.InsertNewline()
			return CmdNone
		}
		edit(s.Query, ev)
	case ModeOutput:
		s.navigate(ev)
	}
	return CmdNone
}

// edit routes an editing key to b. Keys with no editing meaning are ignored.
func edit(b *buffer.Buffer, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			b.InsertChar(ev.Rune())
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b.DeleteBackward()
	case tcell.KeyDelete:
		b.DeleteForward()
	case tcell.KeyLeft:
		b.Move(buffer.Left)
	case tcell.KeyRight:
		b.Move(buffer.Right)
	case tcell.KeyUp:
		b.Move(buffer.Up)
	case tcell.KeyDown:
		b.Move(buffer.Down)
	case tcell.KeyHome:
		b.Move(buffer.Home)
	case tcell.KeyEnd:
		b.Move(buffer.End)
	}
}

func (s *State) navigate(ev *tcell.EventKey) {
	n := s.Output.Len()
	switch ev.Key() {
	case tcell.KeyUp:
		s.selectPrevious()
	case tcell.KeyDown:
		s.selectNext()
	case tcell.KeyHome:
		if n > 0 {
			s.Selected = 0
		}
	case tcell.KeyEnd:
		if n > 0 {
			s.Selected = n - 1
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			s.selectPrevious()
		case 'j':
			s.selectNext()
		}
	}
}

// HandleMouse records the pointer on a primary button press. Focus follows on
// the next Draw, and a press that lands in the Run pane submits there.
// Clicking a history entry loads it into the query editor.
func (s *State) HandleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && s.lastButtons&tcell.Button1 == 0
	s.lastButtons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		if s.mode == ModeOutput {
			s.selectPrevious()
		}
		return
	case buttons&tcell.WheelDown != 0:
		if s.mode == ModeOutput {
			s.selectNext()
		}
		return
	}
	if !pressed {
		return
	}

	x, y := ev.Position()
	if s.historyArea.Contains(x, y) {
		if i := s.historyTop + y - s.historyArea.Y; i < s.History.Len() {
			s.load(i)
			s.focus(ModeQuery)
		}
		return
	}
	s.want = ModeNone
	s.pointer = Point{Row: y, Col: x}
	s.clicked = true
}

// HandlePaste marks the start and end of a bracketed paste. Enter inside a
// paste never submits.
func (s *State) HandlePaste(start bool) {
	s.pasting = start
}
