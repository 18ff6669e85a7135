package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpsdungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/rpsdungeon/internal/frontend/view"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

const (
	columnWidth = 32
	barWidth    = 20
)

// HealthBar renders current/max health as a bar of width cells followed by the
// numbers. Negative health renders as an empty bar.
//
// Precondition: width > 0.
func HealthBar(current, maximum float64, width int) string {
	filled := 0
	if maximum > 0 && current > 0 {
		filled = int(current / maximum * float64(width))
		if filled > width {
			filled = width
		}
	}
	color := telnet.Green
	switch {
	case current <= maximum/4:
		color = telnet.Red
	case current <= maximum/2:
		color = telnet.Yellow
	}
	bar := telnet.Colorize(color, strings.Repeat("#", filled)) + strings.Repeat(".", width-filled)
	return fmt.Sprintf("[%s] %s/%s", bar, combat.FormatAmount(current), combat.FormatAmount(maximum))
}

// RenderSnapshot formats the combat screen.
func RenderSnapshot(s encounter.Snapshot) string {
	var b strings.Builder

	b.WriteString(telnet.Colorize(telnet.BrightYellow, strings.Join(view.FloorInfo(s), "   ")))
	b.WriteString("\r\n\r\n")

	enemy := view.EnemyStats(s)
	player := view.PlayerStats(s)
	enemy[0] = telnet.Colorize(telnet.BrightRed, enemy[0])
	player[0] = telnet.Colorize(telnet.Cyan, player[0])
	rows := max(len(enemy), len(player))
	for i := range rows {
		var left, right string
		if i < len(enemy) {
			left = enemy[i]
		}
		if i < len(player) {
			right = player[i]
		}
		b.WriteString(telnet.PadRight(left, columnWidth))
		b.WriteString(right)
		b.WriteString("\r\n")
	}
	b.WriteString(telnet.PadRight(HealthBar(s.Enemy.Health, s.Enemy.MaxHealth, barWidth/2), columnWidth))
	b.WriteString(HealthBar(s.Player.Health, s.Player.MaxHealth, barWidth/2))
	b.WriteString("\r\n\r\n")

	if s.Phase == encounter.PlayerTurn || s.Phase == encounter.ResolveTurn {
		b.WriteString(telnet.Colorize(telnet.Bold, view.MoveTitle))
		b.WriteString("\r\n")
		for i, line := range view.MoveMenu(s.Player.Moves) {
			if s.PendingPlayerMove != nil && s.Player.Moves[i].Name == s.PendingPlayerMove.Name {
				line = telnet.Colorize(telnet.BrightYellow, "> "+line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\r\n")
		}
		b.WriteString("\r\n")
	}

	if len(s.LogTail) > 0 {
		b.WriteString(RenderLog(s.LogTail))
		b.WriteString("\r\n")
	}

	if popup, ok := view.PopupFor(s); ok {
		b.WriteString(RenderPopup(popup))
		b.WriteString("\r\n")
	}
	if s.Mode == encounter.ModePvE {
		b.WriteString(telnet.Colorize(telnet.Dim, view.SatchelLine(s)))
		b.WriteString("\r\n")
	}
	b.WriteString(telnet.Colorize(telnet.White, view.Prompt(s, "ENTER")))
	b.WriteString("\r\n")
	return b.String()
}

// RenderLog formats combat log lines.
func RenderLog(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(telnet.Colorize(telnet.Dim, "| "))
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderPopup formats a boxed popup message.
func RenderPopup(p view.Popup) string {
	width := telnet.Width(p.Title)
	for _, l := range p.Lines {
		width = max(width, telnet.Width(l))
	}
	color := telnet.Green
	if p.Alert {
		color = telnet.Red
	}
	border := telnet.Colorize(color, "+"+strings.Repeat("-", width+2)+"+")

	var b strings.Builder
	b.WriteString(border)
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(color, "| ") + telnet.Colorize(telnet.Bold, telnet.PadRight(p.Title, width)) + telnet.Colorize(color, " |"))
	b.WriteString("\r\n")
	for _, l := range p.Lines {
		b.WriteString(telnet.Colorize(color, "| ") + telnet.PadRight(l, width) + telnet.Colorize(color, " |"))
		b.WriteString("\r\n")
	}
	b.WriteString(border)
	b.WriteString("\r\n")
	return b.String()
}

// RenderProfile formats a character profile summary.
func RenderProfile(p *character.Profile) string {
	var b strings.Builder
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s the %s", p.Name, p.Ascendancy.Name))
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "  Weapon: %s (%s, %s damage)\r\n", p.Weapon.Name, p.Weapon.Type, combat.FormatAmount(p.Weapon.Damage))
	fmt.Fprintf(&b, "  Armor:  %s (%s)\r\n", p.Armor.Name, combat.FormatAmount(p.Armor.ArmorValue))
	if p.Spell != nil {
		fmt.Fprintf(&b, "  Spell:  %s (%s, %s damage)\r\n", p.Spell.Name, p.Spell.Type, combat.FormatAmount(p.Spell.Damage))
	} else {
		b.WriteString("  Spell:  None\r\n")
	}
	return b.String()
}

// RenderOptions formats a numbered creator step.
func RenderOptions(title string, opts []character.Option) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightYellow, title))
	b.WriteString("\r\n")
	for i, o := range opts {
		fmt.Fprintf(&b, "  %s%d%s. %s", telnet.Cyan, i+1, telnet.Reset, o.Name)
		if o.Detail != "" {
			b.WriteString(telnet.Colorize(telnet.Dim, " - "+o.Detail))
		}
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderModeMenu formats the mode selection menu.
func RenderModeMenu() string {
	return telnet.Colorize(telnet.BrightYellow, "Choose a mode:") + "\r\n" +
		"  1. Dungeon (PvE)\r\n" +
		"  2. Duel (PvP)\r\n" +
		"  q. Quit\r\n"
}
