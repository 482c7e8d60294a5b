// Package canvas paints frames onto a tcell screen using tview primitives.
// Nothing is retained between frames: every call builds, lays out and draws
// its primitive immediately.
package canvas

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"sparqlx/buffer"
)

const ellipsis = "…"

// Screen draws onto a tcell screen.
type Screen struct {
	scr tcell.Screen
}

func New(scr tcell.Screen) *Screen {
	return &Screen{scr: scr}
}

// Frame clears the screen, runs draw and shows the result.
func (s *Screen) Frame(draw func()) {
	s.scr.Clear()
	s.scr.HideCursor()
	draw()
	s.scr.Show()
}

// Size returns the whole drawable area.
func (s *Screen) Size() Rect {
	w, h := s.scr.Size()
	return Rect{W: w, H: h}
}

// slot is a flex item that only records the rectangle it is given.
type slot struct {
	*tview.Box
}

func (slot) Draw(tcell.Screen) {}

// Split divides area along dir.
func (s *Screen) Split(area Rect, dir Direction, sizes ...Size) []Rect {
	flex := tview.NewFlex()
	if dir == Vertical {
		flex.SetDirection(tview.FlexRow)
	} else {
		flex.SetDirection(tview.FlexColumn)
	}
	slots := make([]slot, len(sizes))
	for i, sz := range sizes {
		slots[i] = slot{tview.NewBox()}
		flex.AddItem(slots[i], sz.Fixed, sz.Proportion, false)
	}
	flex.SetRect(area.X, area.Y, area.W, area.H)
	flex.Draw(s.scr)

	rects := make([]Rect, len(slots))
	for i, sl := range slots {
		x, y, w, h := sl.GetRect()
		rects[i] = Rect{X: x, Y: y, W: w, H: h}
	}
	return rects
}

// Pane draws a titled border and returns the area inside it. A highlighted
// pane gets a double border.
func (s *Screen) Pane(area Rect, title string, highlight bool) Rect {
	box := tview.NewBox().SetBorder(true).SetTitle(" " + tview.Escape(title) + " ")
	box.SetRect(area.X, area.Y, area.W, area.H)
	if highlight {
		box.SetBorderColor(tcell.ColorYellow)
		box.SetTitleColor(tcell.ColorYellow)
		box.Focus(nil)
	}
	box.Draw(s.scr)
	x, y, w, h := box.GetInnerRect()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Editor draws the text area behind b, scrolled so its cursor stays visible.
// The terminal cursor is shown only when focused.
func (s *Screen) Editor(area Rect, b *buffer.Buffer, focused bool) {
	if area.Empty() {
		return
	}
	ta := b.Widget()
	ta.SetRect(area.X, area.Y, area.W, area.H)
	if _, _, row, col := ta.GetCursor(); row >= 0 {
		top, left := ta.GetOffset()
		ta.SetOffset(follow(top, row, area.H), follow(left, col, area.W))
	}
	if focused {
		ta.Focus(nil)
	} else {
		ta.Blur()
	}
	ta.Draw(s.scr)
}

// List draws items with the selected one highlighted; -1 selects nothing.
func (s *Screen) List(area Rect, items []string, selected int) {
	if area.Empty() {
		return
	}
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedFocusOnly(true).
		SetUseStyleTags(false, false)
	for _, item := range items {
		list.AddItem(firstLine(item), "", 0, nil)
	}
	list.SetRect(area.X, area.Y, area.W, area.H)
	if selected >= 0 && selected < len(items) {
		list.SetCurrentItem(selected)
		list.Focus(nil)
	}
	list.Draw(s.scr)
}

// Table draws a fixed header row and the rows below it. Rows taller than one
// line continue on extra table rows, one per line of their cells. The view
// scrolls so the selected row is visible.
func (s *Screen) Table(area Rect, t Table) {
	if area.Empty() || len(t.Header) == 0 {
		return
	}
	tbl := tview.NewTable().SetFixed(1, 0)
	for c, name := range t.Header {
		tbl.SetCell(0, c, tableCell(name, columnWidth(t.Widths, c)).
			SetAttributes(tcell.AttrBold|tcell.AttrUnderline).
			SetSelectable(false))
	}

	line, selected := 1, -1
	for r, cells := range t.Rows {
		h := rowHeight(t.Heights, r)
		if r == t.Selected {
			selected = line
		}
		for c := range t.Header {
			var parts []string
			if c < len(cells) {
				parts = strings.Split(cells[c], "\n")
			}
			for dy := 0; dy < h; dy++ {
				text := ""
				if dy < len(parts) {
					text = parts[dy]
				}
				cell := tableCell(text, columnWidth(t.Widths, c))
				if dy > 0 {
					cell.SetSelectable(false)
					if r == t.Selected {
						cell.SetStyle(highlight).SetTransparency(false)
					}
				}
				tbl.SetCell(line+dy, c, cell)
			}
		}
		line += h
	}

	if selected > 0 {
		start := t.Selected
		for start > 0 && span(t.Heights, start-1, t.Selected) <= area.H-1 {
			start--
		}
		tbl.SetSelectable(true, false).
			SetOffset(span(t.Heights, 0, start-1), 0).
			Select(selected, 0)
	}
	tbl.SetRect(area.X, area.Y, area.W, area.H)
	tbl.Draw(s.scr)
}

// highlight matches the colours tview swaps in for a selected cell.
var highlight = tcell.StyleDefault.
	Foreground(tview.Styles.PrimitiveBackgroundColor).
	Background(tview.Styles.PrimaryTextColor)

// tableCell holds one line of text in a column w cells wide.
func tableCell(text string, w int) *tview.TableCell {
	text = strings.ReplaceAll(text, "\t", " ")
	return tview.NewTableCell(tview.Escape(text)).SetMaxWidth(cellWidth(w))
}

// Text draws wrapped text in the colour of tone.
func (s *Screen) Text(area Rect, text string, tone Tone) {
	if area.Empty() {
		return
	}
	color := toneColor(tone)
	for i, line := range tview.WordWrap(tview.Escape(text), area.W) {
		if i >= area.H {
			break
		}
		tview.Print(s.scr, line, area.X, area.Y+i, area.W, tview.AlignLeft, color)
	}
}

func toneColor(t Tone) tcell.Color {
	switch t {
	case ToneMuted:
		return tcell.ColorGray
	case ToneOK:
		return tcell.ColorGreen
	case ToneWarn:
		return tcell.ColorYellow
	case ToneError:
		return tcell.ColorRed
	default:
		return tview.Styles.PrimaryTextColor
	}
}
