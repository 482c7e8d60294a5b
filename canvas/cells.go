package canvas

import "strings"

// cellWidth leaves a one-cell gap after every column wider than one cell.
func cellWidth(w int) int {
	if w > 1 {
		return w - 1
	}
	return w
}

func columnWidth(widths []int, i int) int {
	if i < len(widths) {
		return widths[i]
	}
	return 0
}

func rowHeight(heights []int, i int) int {
	if i < len(heights) && heights[i] > 0 {
		return heights[i]
	}
	return 1
}

// span is the total height of rows from through to.
func span(heights []int, from, to int) int {
	n := 0
	for i := from; i <= to; i++ {
		n += rowHeight(heights, i)
	}
	return n
}

func firstLine(str string) string {
	if i := strings.IndexByte(str, '\n'); i >= 0 {
		return str[:i] + " " + ellipsis
	}
	return str
}

// follow moves a scroll offset the least so pos lies within size cells of it.
func follow(offset, pos, size int) int {
	switch {
	case pos < offset:
		return pos
	case pos >= offset+size:
		return pos - size + 1
	}
	return offset
}
