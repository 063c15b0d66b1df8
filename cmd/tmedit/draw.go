package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/selection"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleCode       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCodeCursor = tcell.StyleDefault.Reverse(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
)

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	codeW := min(ed.codeW, w/3)
	ed.canvas.x, ed.canvas.y = codeW+1, 0
	ed.canvas.w, ed.canvas.h = max(w-codeW-1, 0), max(h-2, 0)

	ed.drawCode(codeW, h-2)
	for y := 0; y < h-2; y++ {
		ed.screen.SetContent(codeW, y, '│', nil, styleBorder)
	}
	ed.drawCanvas()

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeFilePicker:
		ed.drawFilePicker(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCode(w, h int) {
	b := ed.code
	b.Scroll(h - 1)

	title := " Code "
	if ed.mode == ModeCode {
		title = "[Code]"
	}
	ed.drawString(1, 0, title, styleTitle)

	for i := 0; i < h-1; i++ {
		row := b.top + i
		if row >= len(b.lines) {
			break
		}
		line := b.lines[row]
		x := 0
		for col, r := range line {
			if x >= w {
				break
			}
			style := styleCode
			if ed.mode == ModeCode && row == b.row && col == b.col {
				style = styleCodeCursor
			}
			ed.screen.SetContent(x, i+1, r, nil, style)
			x += runewidth.RuneWidth(r)
		}
		if ed.mode == ModeCode && row == b.row && b.col == len(line) && x < w {
			ed.screen.SetContent(x, i+1, ' ', nil, styleCodeCursor)
		}
	}
}

func (ed *Editor) drawCanvas() {
	f := ed.session.LastFrame()
	style := ed.session.Style()
	bg := tcell.StyleDefault.Background(rgb(style.Background))

	ed.canvas.center = f.Centroid
	if ed.grabView != nil {
		ed.canvas.center = *ed.grabView
	}
	v := ed.canvas

	for y := v.y; y < v.y+v.h; y++ {
		for x := v.x; x < v.x+v.w; x++ {
			ed.screen.SetContent(x, y, ' ', nil, bg)
		}
	}

	edgeStyle := bg.Foreground(rgb(style.EdgeColor))
	for _, e := range f.Edges {
		ed.drawCurve(e.Geometry.Curve, edgeStyle)
		arrow := e.Geometry.Arrow
		base := geometry.Midpoint(arrow[1], arrow[2])
		if x, y, ok := v.toCell(arrow[0]); ok {
			ed.screen.SetContent(x, y, arrowRune(arrow[0].Sub(base)), nil, edgeStyle)
		}
	}

	edit := ed.session.Controller().Edit()
	for _, e := range f.Edges {
		for _, l := range e.Labels {
			ls := bg.Foreground(rgb(l.Color))
			if l.Selected {
				ls = ls.Reverse(true)
			}
			text := l.Text
			if edit != nil && edit.Kind == selection.EditRule && edit.Transition == l.Key {
				text += "_"
			}
			ed.drawCentered(l.Center, text, ls)
		}
	}

	for _, s := range f.States {
		ss := tcell.StyleDefault.Background(rgb(s.Fill)).Foreground(rgb(s.Text))
		if s.Selected {
			ss = ss.Bold(true)
		}
		text := s.Name
		if edit != nil && edit.Kind == selection.EditName && edit.State == s.ID {
			text += "_"
		}
		ed.drawCentered(s.Center, "( "+text+" )", ss)
	}
}

// drawCurve dots a curve with one sample per cell or so.
func (ed *Editor) drawCurve(c geometry.Curve, style tcell.Style) {
	n := int(geometry.NewArcLength(c, geometry.DefaultSamples).Total()/cellWidth) + 2
	for _, p := range geometry.Sample(c, n) {
		if x, y, ok := ed.canvas.toCell(p); ok {
			ed.screen.SetContent(x, y, '·', nil, style)
		}
	}
}

func (ed *Editor) drawCentered(p geometry.Vec, text string, style tcell.Style) {
	x, y, _ := ed.canvas.toCell(p)
	x -= runewidth.StringWidth(text) / 2
	for _, r := range text {
		if ed.canvas.contains(x, y) {
			ed.screen.SetContent(x, y, r, nil, style)
		}
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if p := ed.session.Path; p != "" {
		fileInfo = filepath.Base(p)
	}
	if ed.session.Code != "" && ed.session.Machine() == nil {
		fileInfo += " (not compiled)"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-runewidth.StringWidth(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if ed.messageFlashStart > 0 {
			elapsed := time.Now().UnixMilli() - ed.messageFlashStart
			if shouldBeInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(60, w-4)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.input.label, styleInput)
	ed.drawString(boxX+2+runewidth.StringWidth(ed.input.label), boxY+1, ed.input.buffer+"_", styleInput)
}

func (ed *Editor) drawFilePicker(w, h int) {
	p := ed.picker
	totalW := min(80, w-4)
	boxH := min(20, h-4)
	dirW := totalW / 3
	fileW := totalW - dirW - 1
	boxX := (w - totalW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, totalW, boxH, styleInput)
	ed.drawString(boxX+2, boxY, " Open "+truncate(p.dir, totalW-10)+" ", styleTitle)
	for y := boxY + 1; y < boxY+boxH-1; y++ {
		ed.screen.SetContent(boxX+dirW, y, '│', nil, styleBorder)
	}

	rows := boxH - 2
	for i := 0; i < rows && i < len(p.dirs); i++ {
		style := styleInput
		if p.focus == 0 && i == p.dirSelected {
			style = styleMenuSel
		}
		ed.drawString(boxX+1, boxY+1+i, fmt.Sprintf("%-*s", dirW-1, truncate(p.dirs[i]+"/", dirW-1)), style)
	}
	if len(p.files) == 0 {
		ed.drawString(boxX+dirW+2, boxY+1, "no .tm files", styleInput)
	}
	for i := 0; i < rows && i < len(p.files); i++ {
		style := styleInput
		if p.focus == 1 && i == p.fileSelected {
			style = styleMenuSel
		}
		ed.drawString(boxX+dirW+1, boxY+1+i, fmt.Sprintf("%-*s", fileW-1, truncate(p.files[i], fileW-1)), style)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	if _, ok := ed.session.Controller().Dragging(); ok {
		return "MOVE"
	}
	switch ed.mode {
	case ModeCode:
		return "CODE"
	case ModeInput:
		return "INPUT"
	case ModeFilePicker:
		return "FILE SELECT"
	}
	if ed.session.Loading() {
		return "LOADING"
	}
	if e := ed.session.Controller().Edit(); e != nil {
		if e.Kind == selection.EditName {
			return "RENAME"
		}
		return "EDIT RULE"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeCode:
		return "Type rules  Tab/Esc:Canvas  ^R:Compile  ^S:Save  ^Q:Quit"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeFilePicker:
		return "↑↓:Select  Tab:Dirs/Files  Enter:Open  Esc:Cancel"
	}
	if ed.session.Controller().Edit() != nil {
		return "Type to edit  Enter:Commit  Esc:Cancel  Click state:Add transition"
	}
	return "Click:Select  Drag:Move  Arrows:Pan  Tab:Code  ^R:Compile  ^G:Graph→Code  ^O:Open  ^S:Save  ^E:Export  ^W:Word  ^Q:Quit"
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
