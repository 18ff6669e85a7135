// Package tui is the full-screen terminal frontend built on tcell.
package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/cory-johannsen/rpsdungeon/internal/frontend/view"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleSelect = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleGood   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBad    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// putText draws s at (x, y) and returns the column after it. Wide runes take
// two columns; text past the right edge is dropped.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) int {
	sw, _ := scr.Size()
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		if w == 2 {
			scr.SetContent(x+1, y, ' ', nil, st)
		}
		x += w
	}
	return x
}

func putCentered(scr tcell.Screen, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	putText(scr, max(0, (sw-runewidth.StringWidth(s))/2), y, s, st)
}

// fill paints a rectangle with spaces.
func fill(scr tcell.Screen, x, y, w, h int, st tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			scr.SetContent(col, row, ' ', nil, st)
		}
	}
}

// drawBox draws a bordered, cleared box.
func drawBox(scr tcell.Screen, x, y, w, h int, st tcell.Style) {
	fill(scr, x, y, w, h, tcell.StyleDefault)
	for col := x + 1; col < x+w-1; col++ {
		scr.SetContent(col, y, tcell.RuneHLine, nil, st)
		scr.SetContent(col, y+h-1, tcell.RuneHLine, nil, st)
	}
	for row := y + 1; row < y+h-1; row++ {
		scr.SetContent(x, row, tcell.RuneVLine, nil, st)
		scr.SetContent(x+w-1, row, tcell.RuneVLine, nil, st)
	}
	scr.SetContent(x, y, tcell.RuneULCorner, nil, st)
	scr.SetContent(x+w-1, y, tcell.RuneURCorner, nil, st)
	scr.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, st)
	scr.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, st)
}

// drawPanel draws a titled box holding lines, centered on screen.
func drawPanel(scr tcell.Screen, title string, lines []string, st tcell.Style) {
	sw, sh := scr.Size()
	width := runewidth.StringWidth(title)
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	w := min(width+4, sw)
	h := min(len(lines)+4, sh)
	x, y := (sw-w)/2, (sh-h)/2
	drawBox(scr, x, y, w, h, st)
	putText(scr, x+2, y+1, title, st.Bold(true))
	for i, l := range lines {
		if y+3+i >= y+h-1 {
			break
		}
		putText(scr, x+2, y+3+i, l, styleText)
	}
}

func healthStyle(current, maximum float64) tcell.Style {
	switch {
	case current <= maximum/4:
		return styleBad
	case current <= maximum/2:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	return styleGood
}

// drawBar draws a health bar of width cells.
func drawBar(scr tcell.Screen, x, y, width int, current, maximum float64) {
	filled := 0
	if maximum > 0 && current > 0 {
		filled = min(width, int(current/maximum*float64(width)))
	}
	putText(scr, x, y, strings.Repeat("█", filled), healthStyle(current, maximum))
	putText(scr, x+filled, y, strings.Repeat("░", width-filled), styleDim)
}

// Layout columns and rows of the combat screen.
const (
	leftCol  = 2
	rightCol = 42
	statsRow = 2
	menuRow  = 12
)

// DrawGame renders the combat screen for s. overlay, when non-empty, is drawn
// as a panel over everything else.
func DrawGame(scr tcell.Screen, s encounter.Snapshot, overlay *view.Popup) {
	scr.Clear()
	_, sh := scr.Size()

	putText(scr, leftCol, 0, "Rock Paper Scissors Dungeon", styleTitle)
	putText(scr, rightCol, 0, strings.Join(view.FloorInfo(s), "  "), styleTitle)

	for i, l := range view.EnemyStats(s) {
		st := styleText
		if i == 0 {
			st = styleEnemy
		}
		putText(scr, leftCol, statsRow+i, l, st)
	}
	for i, l := range view.PlayerStats(s) {
		st := styleText
		if i == 0 {
			st = stylePlayer
		}
		putText(scr, rightCol, statsRow+i, l, st)
	}
	drawBar(scr, leftCol, statsRow+8, 20, s.Enemy.Health, s.Enemy.MaxHealth)
	drawBar(scr, rightCol, statsRow+8, 20, s.Player.Health, s.Player.MaxHealth)

	if s.Phase == encounter.PlayerTurn || s.Phase == encounter.ResolveTurn {
		putText(scr, leftCol, menuRow, view.MoveTitle, styleTitle)
		for i, l := range view.MoveMenu(s.Player.Moves) {
			st := styleText
			if s.PendingPlayerMove != nil && s.Player.Moves[i].Name == s.PendingPlayerMove.Name {
				st = styleSelect
			}
			putText(scr, leftCol, menuRow+1+i, l, st)
		}
	}

	putText(scr, rightCol, menuRow, "Combat Log", styleTitle)
	for i, l := range s.LogTail {
		putText(scr, rightCol, menuRow+1+i, l, styleDim)
	}

	if s.Mode == encounter.ModePvE {
		putText(scr, leftCol, sh-2, view.SatchelLine(s), styleDim)
	}
	putText(scr, leftCol, sh-1, view.Prompt(s, "ENTER"), styleText)

	if popup, ok := view.PopupFor(s); ok && overlay == nil {
		drawPopup(scr, popup)
	}
	if overlay != nil {
		drawPanel(scr, overlay.Title, overlay.Lines, styleTitle)
	}
}

func drawPopup(scr tcell.Screen, p view.Popup) {
	st := styleGood
	if p.Alert {
		st = styleBad
	}
	drawPanel(scr, p.Title, p.Lines, st)
}

// DrawOptions renders a creator step with the cursor on selected.
func DrawOptions(scr tcell.Screen, title, hint string, opts []OptionLine, selected int) {
	scr.Clear()
	_, sh := scr.Size()
	putCentered(scr, 1, title, styleTitle)
	for i, o := range opts {
		st := styleText
		if i == selected {
			st = styleSelect
		}
		x := putText(scr, 4, 3+i*2, o.Label, st)
		putText(scr, x+1, 3+i*2, o.Detail, styleDim)
	}
	putText(scr, 2, sh-1, hint, styleDim)
}

// OptionLine is one row of an option screen.
type OptionLine struct {
	Label  string
	Detail string
}
