package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rpsdungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
)

// errCancelled is returned when the player quits mid-flow.
var errCancelled = errors.New("cancelled by player")

// isQuit reports whether input asks to leave the current flow.
func isQuit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// runCreator walks the creator over conn until a profile is complete.
//
// Precondition: name must be non-empty; catalog must be valid.
// Postcondition: Returns the profile, errCancelled, or a connection error.
func runCreator(ctx context.Context, conn *telnet.Conn, name string, catalog *inventory.Catalog) (*character.Profile, error) {
	c := character.NewCreator(name, catalog)
	if err := conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "Creating a new character: %s", name)); err != nil {
		return nil, err
	}
	for !c.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := c.Step()
		if err := conn.WritePrompt(RenderOptions(step.Title(), c.Options())); err != nil {
			return nil, err
		}
		hint := "Choice"
		if step == character.StepSpell {
			hint = "Choice (s to skip)"
		}
		if err := conn.WritePrompt(hint + ": "); err != nil {
			return nil, err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return nil, err
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if isQuit(line) {
			return nil, errCancelled
		}
		if step == character.StepSpell && (line == "s" || line == "skip" || line == "none") {
			if err := c.Skip(); err != nil {
				return nil, err
			}
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			if err := conn.WriteLine(telnet.Colorize(telnet.Red, "Enter the number of your choice.")); err != nil {
				return nil, err
			}
			continue
		}
		if err := c.Select(n - 1); err != nil {
			if errors.Is(err, character.ErrInvalidChoice) {
				if werr := conn.WriteLine(telnet.Colorf(telnet.Red, "Choose between 1 and %d.", len(c.Options()))); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, err
		}
	}
	p, err := c.Profile()
	if err != nil {
		return nil, fmt.Errorf("finishing creator: %w", err)
	}
	return p, nil
}
