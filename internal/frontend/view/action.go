package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

// ActionKind is what the player asked for.
type ActionKind int

const (
	ActNone ActionKind = iota
	// ActMove picks Action.Move.
	ActMove
	// ActConfirm resolves a turn or dismisses a popup.
	ActConfirm
	ActRestart
	ActLog
	ActHelp
	ActQuit
)

// Action is one parsed player input.
type Action struct {
	Kind ActionKind
	// Move is the zero-based move index for ActMove.
	Move int
}

// ErrUnknownCommand is returned by ParseCommand for unrecognized input.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a text command and the action it maps to.
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Kind    ActionKind
}

// Commands lists the text commands in help order. The empty alias of
// "continue" makes a bare ENTER confirm.
var Commands = []Command{
	{Name: "continue", Aliases: []string{"", "c", "resolve", "ok"}, Help: "resolve the turn or continue", Kind: ActConfirm},
	{Name: "restart", Aliases: []string{"r"}, Help: "start over after defeat", Kind: ActRestart},
	{Name: "log", Aliases: []string{"l"}, Help: "show the full combat log", Kind: ActLog},
	{Name: "help", Aliases: []string{"h", "?"}, Help: "show this list", Kind: ActHelp},
	{Name: "quit", Aliases: []string{"q", "exit"}, Help: "leave the game", Kind: ActQuit},
}

var commandIndex = buildIndex(Commands)

// buildIndex maps every name and alias to its command.
//
// Precondition: no two commands share a name or alias.
func buildIndex(cmds []Command) map[string]*Command {
	idx := make(map[string]*Command)
	for i := range cmds {
		c := &cmds[i]
		for _, key := range append([]string{c.Name}, c.Aliases...) {
			if prev, ok := idx[key]; ok {
				panic(fmt.Sprintf("view: %q used by both %q and %q", key, prev.Name, c.Name))
			}
			idx[key] = c
		}
	}
	return idx
}

// ParseCommand parses a line of text input. A number selects that move (one
// based); anything else is looked up by command name or alias.
func ParseCommand(line string) (Action, error) {
	word := strings.ToLower(strings.TrimSpace(line))
	if n, err := strconv.Atoi(word); err == nil {
		if n < 1 {
			return Action{}, fmt.Errorf("move %d: %w", n, encounter.ErrInvalidMove)
		}
		return Action{Kind: ActMove, Move: n - 1}, nil
	}
	if c, ok := commandIndex[word]; ok {
		return Action{Kind: c.Kind}, nil
	}
	return Action{}, fmt.Errorf("%q: %w", word, ErrUnknownCommand)
}

// Apply performs a game action. ActConfirm resolves the turn in ResolveTurn
// and dismisses the popup otherwise. Actions with no game effect are no-ops.
//
// Postcondition: wrong-phase and invalid-move errors leave the game unchanged.
func Apply(g encounter.Game, a Action) error {
	switch a.Kind {
	case ActMove:
		return g.SubmitPlayerMove(a.Move)
	case ActConfirm:
		if g.Snapshot().Phase == encounter.ResolveTurn {
			return g.ConfirmResolve()
		}
		return g.ConfirmPopup()
	case ActRestart:
		return g.Restart()
	}
	return nil
}

// Advance runs the automatic enemy steps until the player must act.
func Advance(g encounter.Game) {
	for g.Tick() {
	}
}

// Help lists the text commands.
func Help() []string {
	lines := []string{"Commands:", fmt.Sprintf("  %-10s use that move", "1..n")}
	for _, c := range Commands {
		lines = append(lines, fmt.Sprintf("  %-10s %s", c.Name, c.Help))
	}
	return append(lines, fmt.Sprintf("  %-10s same as continue", "<enter>"))
}
