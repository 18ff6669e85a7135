package tui

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/frontend/view"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

// ErrQuit is returned when the player leaves before finishing a screen.
var ErrQuit = errors.New("tui: player quit")

// App drives games and the character creator on a tcell screen.
type App struct {
	screen tcell.Screen
	logger *zap.Logger
	// OnRunEnd, when set, is called once for every run that ends.
	OnRunEnd func(encounter.RunSummary)
}

// New returns an App drawing on screen.
//
// Precondition: screen must be initialized; logger must be non-nil.
func New(screen tcell.Screen, logger *zap.Logger) *App {
	return &App{screen: screen, logger: logger}
}

// keyAction maps a key to a game action.
func keyAction(ev *tcell.EventKey) view.Action {
	switch ev.Key() {
	case tcell.KeyEnter:
		return view.Action{Kind: view.ActConfirm}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return view.Action{Kind: view.ActQuit}
	case tcell.KeyRune:
	default:
		return view.Action{}
	}
	r := ev.Rune()
	switch {
	case r >= '1' && r <= '9':
		return view.Action{Kind: view.ActMove, Move: int(r - '1')}
	case r == ' ':
		return view.Action{Kind: view.ActConfirm}
	}
	switch unicode.ToLower(r) {
	case 'r':
		return view.Action{Kind: view.ActRestart}
	case 'l':
		return view.Action{Kind: view.ActLog}
	case 'h', '?':
		return view.Action{Kind: view.ActHelp}
	case 'q':
		return view.Action{Kind: view.ActQuit}
	}
	return view.Action{}
}

// Play runs g until the player quits or a duel is acknowledged.
//
// Postcondition: OnRunEnd has been called for every run that ended.
func (a *App) Play(g encounter.Game) error {
	var (
		overlay  *view.Popup
		recorded encounter.RunSummary
	)
	for {
		view.Advance(g)
		snap := g.Snapshot()
		if sum := g.Summary(); sum.Outcome != encounter.OutcomeInProgress && sum.RunID != recorded.RunID {
			recorded = sum
			a.logger.Info("run finished",
				zap.String("run_id", sum.RunID.String()),
				zap.String("outcome", string(sum.Outcome)),
				zap.Int("floor", sum.FloorNumber),
			)
			if a.OnRunEnd != nil {
				a.OnRunEnd(sum)
			}
		}
		DrawGame(a.screen, snap, overlay)
		a.screen.Show()
		if snap.Finished {
			return nil
		}

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return ErrQuit
		case *tcell.EventResize:
			a.screen.Sync()
			continue
		case *tcell.EventKey:
			if overlay != nil {
				overlay = nil
				continue
			}
			act := keyAction(ev)
			switch act.Kind {
			case view.ActQuit:
				return nil
			case view.ActLog:
				overlay = logPanel(g.Log(), a.screen)
				continue
			case view.ActHelp:
				overlay = &view.Popup{Title: "Help", Lines: helpLines}
				continue
			}
			if err := view.Apply(g, act); err != nil {
				if errors.Is(err, encounter.ErrWrongPhase) || errors.Is(err, encounter.ErrInvalidMove) {
					a.logger.Debug("input ignored", zap.Error(err))
					continue
				}
				return err
			}
		}
	}
}

var helpLines = []string{
	"1-9      use that move",
	"ENTER    resolve the turn or continue",
	"r        restart after defeat",
	"l        show the full combat log",
	"q / ESC  quit",
	"",
	"Any key closes this panel.",
}

// logPanel shows as much of the end of the log as fits the screen.
func logPanel(entries []string, scr tcell.Screen) *view.Popup {
	_, sh := scr.Size()
	room := max(1, sh-6)
	if len(entries) > room {
		entries = entries[len(entries)-room:]
	}
	if len(entries) == 0 {
		entries = []string{"Nothing has happened yet."}
	}
	return &view.Popup{Title: "Combat Log", Lines: entries}
}

// CreateCharacter walks the creator. Arrow keys or j/k move the cursor, ENTER
// or a digit selects, s skips the spell step.
//
// Postcondition: Returns the finished profile or ErrQuit.
func (a *App) CreateCharacter(c *character.Creator) (*character.Profile, error) {
	selected := 0
	for !c.Done() {
		opts := c.Options()
		lines := make([]OptionLine, len(opts))
		for i, o := range opts {
			lines[i] = OptionLine{Label: fmt.Sprintf("%d. %s", i+1, o.Name), Detail: o.Detail}
		}
		hint := "ENTER select  q quit"
		if c.Step() == character.StepSpell {
			hint = "ENTER select  s skip  q quit"
		}
		DrawOptions(a.screen, c.Step().Title(), hint, lines, selected)
		a.screen.Show()

		ev := a.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if ev == nil {
			return nil, ErrQuit
		}
		if !ok {
			if _, resize := ev.(*tcell.EventResize); resize {
				a.screen.Sync()
			}
			continue
		}
		pick := -1
		switch key.Key() {
		case tcell.KeyUp:
			selected = (selected - 1 + len(opts)) % max(1, len(opts))
		case tcell.KeyDown:
			selected = (selected + 1) % max(1, len(opts))
		case tcell.KeyEnter:
			pick = selected
		case tcell.KeyEscape:
			return nil, ErrQuit
		case tcell.KeyRune:
			switch r := unicode.ToLower(key.Rune()); {
			case r == 'k':
				selected = (selected - 1 + len(opts)) % max(1, len(opts))
			case r == 'j':
				selected = (selected + 1) % max(1, len(opts))
			case r == 'q':
				return nil, ErrQuit
			case r == 's' && c.Step() == character.StepSpell:
				if err := c.Skip(); err != nil {
					return nil, err
				}
				selected = 0
			case r >= '1' && r <= '9':
				pick = int(r - '1')
			}
		}
		if pick < 0 {
			continue
		}
		if err := c.Select(pick); err != nil {
			if errors.Is(err, character.ErrInvalidChoice) {
				continue
			}
			return nil, err
		}
		selected = 0
	}
	return c.Profile()
}

// maxNameLen bounds typed character names.
const maxNameLen = 32

// PromptName reads a character name typed on the screen.
//
// Postcondition: Returns a non-empty name or ErrQuit.
func (a *App) PromptName() (string, error) {
	var name []rune
	for {
		a.screen.Clear()
		_, sh := a.screen.Size()
		putCentered(a.screen, 1, "Name Your Character", styleTitle)
		x := putText(a.screen, 4, 3, "Name: ", styleText)
		putText(a.screen, x, 3, string(name)+"_", styleSelect)
		putText(a.screen, 2, sh-1, "ENTER confirm  ESC quit", styleDim)
		a.screen.Show()

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return "", ErrQuit
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return "", ErrQuit
			case tcell.KeyEnter:
				if len(name) > 0 {
					return string(name), nil
				}
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(name) > 0 {
					name = name[:len(name)-1]
				}
			case tcell.KeyRune:
				if r := ev.Rune(); unicode.IsPrint(r) && len(name) < maxNameLen && (len(name) > 0 || !unicode.IsSpace(r)) {
					name = append(name, r)
				}
			}
		}
	}
}
