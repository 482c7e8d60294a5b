package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// Direction is a cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	Home
	End
)

// Position is a cursor location in runes, zero based.
type Position struct {
	Row int
	Col int
}

// Buffer is an editable multi-line text region with a cursor, held in a
// tview.TextArea. Every operation keeps the cursor inside the content, so none
// of them can fail. The zero value is an empty buffer.
type Buffer struct {
	area *tview.TextArea
	off  int // cursor, byte offset into the text
}

// New returns a buffer holding text with the cursor at the start.
func New(text string) *Buffer {
	b := &Buffer{}
	b.Load(text)
	return b
}

// Widget returns the text area backing the buffer, for drawing.
func (b *Buffer) Widget() *tview.TextArea {
	if b.area == nil {
		b.area = tview.NewTextArea().SetWrap(false)
	}
	return b.area
}

// Load replaces the whole content and resets the cursor.
func (b *Buffer) Load(text string) {
	b.Widget().SetText(text, false)
	b.off = 0
}

// Text returns the content with newline separators.
func (b *Buffer) Text() string {
	if b.area == nil {
		return ""
	}
	return b.area.GetText()
}

// Lines returns the content, one string per line.
func (b *Buffer) Lines() []string {
	return strings.Split(b.Text(), "\n")
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Position {
	head := b.Text()[:b.cursor()]
	i := strings.LastIndexByte(head, '\n')
	return Position{
		Row: strings.Count(head, "\n"),
		Col: utf8.RuneCountInString(head[i+1:]),
	}
}

// Len returns the content length in runes, counting line breaks.
func (b *Buffer) Len() int {
	return utf8.RuneCountInString(b.Text())
}

// Offset returns the cursor as a rune offset into Text.
func (b *Buffer) Offset() int {
	return utf8.RuneCountInString(b.Text()[:b.cursor()])
}

// cursor returns the byte offset clamped to the current text.
func (b *Buffer) cursor() int {
	return min(max(b.off, 0), len(b.Text()))
}

// replace swaps text[start:end] for s and leaves the cursor after s.
func (b *Buffer) replace(start, end int, s string) {
	text := b.Text()
	want := text[:start] + s + text[end:]
	ta := b.Widget()
	ta.Replace(start, end, s)
	b.off = start + len(s)
	// Replace snaps to grapheme clusters; keep the rune level edit.
	if ta.GetText() != want {
		ta.SetText(want, false)
		ta.Select(b.off, b.off)
	}
}

// InsertChar inserts r before the cursor. A '\n' splits the line.
func (b *Buffer) InsertChar(r rune) {
	if r == '\n' {
		b.InsertNewline()
		return
	}
	if r == '\r' {
		return
	}
	off := b.cursor()
	b.replace(off, off, string(r))
}

// InsertText inserts s rune by rune, as a paste would.
func (b *Buffer) InsertText(s string) {
	for _, r := range s {
		b.InsertChar(r)
	}
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline() {
	off := b.cursor()
	b.replace(off, off, "\n")
}

// DeleteBackward removes the rune before the cursor, joining lines at a line start.
// At the very start of the buffer it does nothing.
func (b *Buffer) DeleteBackward() {
	off := b.cursor()
	if off == 0 {
		return
	}
	_, n := utf8.DecodeLastRuneInString(b.Text()[:off])
	b.replace(off-n, off, "")
}

// DeleteForward removes the rune under the cursor, joining the next line at a line end.
func (b *Buffer) DeleteForward() {
	text, off := b.Text(), b.cursor()
	if off >= len(text) {
		return
	}
	_, n := utf8.DecodeRuneInString(text[off:])
	b.replace(off, off+n, "")
}

// Move moves the cursor. Left and Right wrap across line breaks,
// Up and Down clamp the column to the target line.
func (b *Buffer) Move(d Direction) {
	lines := b.Lines()
	pos := b.Cursor()
	row, col := pos.Row, pos.Col
	width := func(r int) int { return utf8.RuneCountInString(lines[r]) }
	switch d {
	case Left:
		if col > 0 {
			col--
		} else if row > 0 {
			row--
			col = width(row)
		}
	case Right:
		if col < width(row) {
			col++
		} else if row < len(lines)-1 {
			row++
			col = 0
		}
	case Up:
		if row > 0 {
			row--
		}
	case Down:
		if row < len(lines)-1 {
			row++
		}
	case Home:
		col = 0
	case End:
		col = width(row)
	}
	col = min(col, width(row))

	off := 0
	for _, l := range lines[:row] {
		off += len(l) + 1
	}
	off += len(string([]rune(lines[row])[:col]))
	b.off = off
	b.Widget().Select(off, off)
}
