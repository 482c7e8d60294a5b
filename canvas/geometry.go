package canvas

// Rect is a screen region in cells
type Rect struct {
	X, Y, W, H int
}

// Shrink removes n cells from every side. The result is never negative.
func (r Rect) Shrink(n int) Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// Contains reports whether the cell at column x, row y lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Direction is the axis along which Split lays out regions.
type Direction int

const (
	// Vertical stacks regions top to bottom.
	Vertical Direction = iota
	// Horizontal places regions left to right.
	Horizontal
)

// Size is a fixed cell count or, when Fixed is zero, a share of what the
// fixed sizes leave over.
type Size struct {
	Fixed      int
	Proportion int
}

func Fixed(n int) Size { return Size{Fixed: n} }

func Ratio(n int) Size { return Size{Proportion: n} }

// Tone picks the colour of a Text region.
type Tone int

const (
	ToneNormal Tone = iota
	ToneMuted
	ToneOK
	ToneWarn
	ToneError
)

// Table is a result grid. Selected is the highlighted row or -1.
type Table struct {
	Header []string
	// Widths caps each column, counting the one-cell gap after it.
	Widths   []int
	Rows     [][]string
	Heights  []int
	Selected int
}
