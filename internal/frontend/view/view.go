// Package view turns encounter snapshots into the plain text shown by every
// frontend and maps frontend input onto game operations.
package view

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
)

// FloorInfo returns the floor, room and enemies-left lines. Duels have none.
func FloorInfo(s encounter.Snapshot) []string {
	if s.Mode == encounter.ModePvP {
		return []string{"Duel"}
	}
	return []string{
		fmt.Sprintf("Floor: %d", s.FloorNumber),
		string(s.Room),
		fmt.Sprintf("Enemies Left: %d", s.EnemiesLeft),
	}
}

// EnemyStats returns the enemy panel lines.
func EnemyStats(s encounter.Snapshot) []string {
	e := s.Enemy
	lines := []string{
		"Enemy Stats:",
		"Name: " + e.Name,
		"Health: " + combat.FormatAmount(e.Health),
	}
	if s.Mode == encounter.ModePvE {
		lines = append(lines,
			"Type: "+e.Type,
			"Weakness: "+e.Weakness,
			"Danger: "+dangerLabel(e.Danger),
		)
	} else {
		lines = append(lines, "Armor: "+combat.FormatAmount(e.ArmorRating))
	}
	return lines
}

func dangerLabel(d npc.DangerLevel) string {
	switch d {
	case npc.Normal:
		return "Normal"
	case npc.Elite:
		return "Elite"
	case npc.Boss:
		return "Boss"
	}
	return d.String()
}

// PlayerStats returns the player panel lines.
func PlayerStats(s encounter.Snapshot) []string {
	p := s.Player
	return []string{
		"Player Stats:",
		"Health: " + combat.FormatAmount(p.Health),
		"Attack: " + combat.FormatAmount(p.Attack),
		"Defense: " + combat.FormatAmount(p.Defense),
		"Weapon: " + p.Weapon,
		"Armor: " + p.ArmorName,
		"Spell: " + p.Spell,
	}
}

// MoveTitle heads the move menu.
const MoveTitle = "Choose Your Move:"

// MoveLine formats entry i (zero based) of a move menu.
func MoveLine(i int, m combat.Move) string {
	return fmt.Sprintf("%d. %s (%s) - %s DMG", i+1, m.Name, m.Type, combat.FormatAmount(m.Damage))
}

// MoveMenu formats every move of the player.
func MoveMenu(moves []combat.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = MoveLine(i, m)
	}
	return out
}

// Prompt returns the instruction for the current phase. keys names the
// confirm input of the frontend, e.g. "ENTER".
func Prompt(s encounter.Snapshot, keys string) string {
	switch s.Phase {
	case encounter.EnemyTurn:
		return "Enemy is choosing a move..."
	case encounter.PlayerTurn:
		return fmt.Sprintf("Choose your move (1-%d):", len(s.Player.Moves))
	case encounter.ResolveTurn:
		return fmt.Sprintf("Press %s to resolve the turn...", keys)
	case encounter.RewardsPopup, encounter.EnemyDefeated:
		if s.Finished {
			return "The duel is over."
		}
		return fmt.Sprintf("Press %s to continue...", keys)
	case encounter.GameOver:
		return "Restart or quit?"
	}
	return ""
}

// Popup is a modal message over the combat screen.
type Popup struct {
	Title string
	Lines []string
	// Alert marks defeat.
	Alert bool
}

// PopupFor returns the popup for the current phase, if any.
func PopupFor(s encounter.Snapshot) (Popup, bool) {
	switch s.Phase {
	case encounter.RewardsPopup:
		p := Popup{Title: "Victory!", Lines: []string{fmt.Sprintf("You have killed %s!", s.Enemy.Name)}}
		if len(s.Rewards) == 0 {
			p.Lines = append(p.Lines, "No loot this time.")
		}
		for _, r := range s.Rewards {
			p.Lines = append(p.Lines, fmt.Sprintf("- %s x%d", r.Item, r.Quantity))
		}
		return p, true
	case encounter.EnemyDefeated:
		return Popup{Title: "Victory!", Lines: []string{fmt.Sprintf("You have defeated %s!", s.Enemy.Name)}}, true
	case encounter.GameOver:
		lines := []string{"You have been defeated!"}
		if s.Mode == encounter.ModePvE {
			lines = append(lines,
				fmt.Sprintf("Reached floor %d, %s.", s.FloorNumber, s.Room),
				fmt.Sprintf("Enemies defeated: %d", s.EnemiesDefeated),
			)
		}
		return Popup{Title: "Game Over!", Lines: lines, Alert: true}, true
	}
	return Popup{}, false
}

// SatchelLine summarizes the loot carried this run.
func SatchelLine(s encounter.Snapshot) string {
	if len(s.Satchel) == 0 {
		return "Satchel: empty"
	}
	parts := make([]string, len(s.Satchel))
	for i, st := range s.Satchel {
		parts[i] = fmt.Sprintf("%s x%d", st.Item, st.Quantity)
	}
	return "Satchel: " + strings.Join(parts, ", ")
}
