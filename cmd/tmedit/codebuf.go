package main

import "strings"

// codeBuffer is the rule text being edited in the code pane, kept as lines
// of runes with a cursor.
type codeBuffer struct {
	lines [][]rune
	row   int
	col   int
	top   int // first visible line
}

func newCodeBuffer(text string) *codeBuffer {
	b := &codeBuffer{}
	b.SetText(text)
	return b
}

// SetText replaces the buffer and moves the cursor to the start.
func (b *codeBuffer) SetText(text string) {
	text = strings.TrimRight(text, "\n")
	b.lines = nil
	for _, l := range strings.Split(text, "\n") {
		b.lines = append(b.lines, []rune(l))
	}
	b.row, b.col, b.top = 0, 0, 0
}

// Text returns the buffer with a trailing newline.
func (b *codeBuffer) Text() string {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(string(l))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *codeBuffer) Insert(r rune) {
	l := b.lines[b.row]
	l = append(l[:b.col], append([]rune{r}, l[b.col:]...)...)
	b.lines[b.row] = l
	b.col++
}

// Newline splits the current line at the cursor.
func (b *codeBuffer) Newline() {
	l := b.lines[b.row]
	head := append([]rune(nil), l[:b.col]...)
	tail := append([]rune(nil), l[b.col:]...)
	b.lines[b.row] = head
	b.lines = append(b.lines[:b.row+1], append([][]rune{tail}, b.lines[b.row+1:]...)...)
	b.row++
	b.col = 0
}

// Backspace deletes before the cursor, joining lines at a line start.
func (b *codeBuffer) Backspace() {
	if b.col > 0 {
		l := b.lines[b.row]
		b.lines[b.row] = append(l[:b.col-1], l[b.col:]...)
		b.col--
		return
	}
	if b.row == 0 {
		return
	}
	prev := b.lines[b.row-1]
	b.col = len(prev)
	b.lines[b.row-1] = append(prev, b.lines[b.row]...)
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	b.row--
}

// Move shifts the cursor, clamped to the text.
func (b *codeBuffer) Move(drow, dcol int) {
	if dcol != 0 {
		b.col += dcol
		switch {
		case b.col < 0 && b.row > 0:
			b.row--
			b.col = len(b.lines[b.row])
		case b.col > len(b.lines[b.row]) && b.row < len(b.lines)-1:
			b.row++
			b.col = 0
		}
	}
	b.row += drow
	if b.row < 0 {
		b.row = 0
	}
	if b.row >= len(b.lines) {
		b.row = len(b.lines) - 1
	}
	if b.col < 0 {
		b.col = 0
	}
	if b.col > len(b.lines[b.row]) {
		b.col = len(b.lines[b.row])
	}
}

// Scroll keeps the cursor inside a window of h lines.
func (b *codeBuffer) Scroll(h int) {
	if b.row < b.top {
		b.top = b.row
	}
	if h > 0 && b.row >= b.top+h {
		b.top = b.row - h + 1
	}
}
