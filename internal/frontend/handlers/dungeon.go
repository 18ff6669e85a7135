package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/rpsdungeon/internal/frontend/view"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/session"
	"github.com/cory-johannsen/rpsdungeon/internal/game/world"
	"github.com/cory-johannsen/rpsdungeon/internal/storage/postgres"
)

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]{1,31}$`)

// ValidName reports whether name is 2-32 characters, starts with a letter and
// holds only letters, digits, spaces, underscores and hyphens.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// DungeonHandler runs one player's dungeon session over telnet. It satisfies
// telnet.SessionHandler.
type DungeonHandler struct {
	factory  *world.Factory
	profiles ProfileStore
	runs     RunRecorder
	sessions *session.Manager
	logger   *zap.Logger
}

// NewDungeonHandler creates a DungeonHandler. runs may be nil, in which case
// finished runs are only logged.
//
// Precondition: factory, profiles, sessions and logger must be non-nil.
func NewDungeonHandler(factory *world.Factory, profiles ProfileStore, runs RunRecorder, sessions *session.Manager, logger *zap.Logger) *DungeonHandler {
	return &DungeonHandler{
		factory:  factory,
		profiles: profiles,
		runs:     runs,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleSession greets the player, loads or creates their character and runs
// games until they quit.
//
// Postcondition: the player's session is removed from the manager on return.
// Quitting returns nil.
func (h *DungeonHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	remote := conn.RemoteAddr().String()
	logger := h.logger.With(zap.String("remote_addr", remote))

	if err := conn.WriteLines(
		telnet.Colorize(telnet.BrightYellow, "=== Rock Paper Scissors Dungeon ==="),
		"Type 'quit' at any prompt to leave.",
		"",
	); err != nil {
		return err
	}

	sess, err := h.join(ctx, conn, remote)
	if errors.Is(err, errCancelled) || errors.Is(err, session.ErrFull) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := h.sessions.Remove(sess.ID); err != nil {
			logger.Warn("removing session", zap.Error(err))
		}
	}()
	logger = logger.With(zap.String("player", sess.PlayerName), zap.String("session_id", sess.ID.String()))
	logger.Info("player joined")

	profile, err := h.loadOrCreate(ctx, conn, sess.PlayerName)
	if errors.Is(err, errCancelled) {
		return conn.WriteLine("Goodbye.")
	}
	if err != nil {
		return err
	}
	if err := conn.WritePrompt(RenderProfile(profile)); err != nil {
		return err
	}

	for {
		mode, err := h.chooseMode(ctx, conn)
		if errors.Is(err, errCancelled) {
			logger.Info("player left")
			return conn.WriteLine("Goodbye.")
		}
		if err != nil {
			return err
		}
		g, err := h.factory.NewGame(mode, profile)
		if err != nil {
			logger.Error("creating game", zap.Error(err))
			if werr := conn.WriteLine(telnet.Colorize(telnet.Red, "The dungeon could not be prepared. Try again later.")); werr != nil {
				return werr
			}
			return err
		}
		if err := h.play(ctx, conn, sess, g, logger); err != nil {
			return err
		}
	}
}

// join prompts for a character name until one can be registered.
func (h *DungeonHandler) join(ctx context.Context, conn *telnet.Conn, remote string) (*session.Session, error) {
	for {
		name, err := h.promptName(ctx, conn)
		if err != nil {
			return nil, err
		}
		sess, err := h.sessions.Add(name, remote)
		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, session.ErrNameInUse):
			if err := conn.WriteLine(telnet.Colorf(telnet.Red, "%s is already in the dungeon.", name)); err != nil {
				return nil, err
			}
		case errors.Is(err, session.ErrFull):
			if werr := conn.WriteLine(telnet.Colorize(telnet.Red, "The dungeon is full. Try again later.")); werr != nil {
				return nil, werr
			}
			return nil, err
		default:
			return nil, err
		}
	}
}

func (h *DungeonHandler) promptName(ctx context.Context, conn *telnet.Conn) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := conn.WritePrompt("Character name: "); err != nil {
			return "", err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(line)
		if isQuit(name) {
			return "", errCancelled
		}
		if !ValidName(name) {
			if err := conn.WriteLine(telnet.Colorize(telnet.Red, "Names are 2-32 characters and start with a letter.")); err != nil {
				return "", err
			}
			continue
		}
		return name, nil
	}
}

// loadOrCreate returns the stored profile for name, running the creator when
// there is none.
func (h *DungeonHandler) loadOrCreate(ctx context.Context, conn *telnet.Conn, name string) (*character.Profile, error) {
	p, err := h.profiles.Get(ctx, name)
	switch {
	case err == nil:
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("stored profile %q: %w", name, err)
		}
		if err := conn.WriteLine(telnet.Colorf(telnet.Green, "Welcome back, %s.", name)); err != nil {
			return nil, err
		}
		return p, nil
	case !errors.Is(err, postgres.ErrProfileNotFound):
		return nil, fmt.Errorf("loading profile %q: %w", name, err)
	}

	p, err = runCreator(ctx, conn, name, h.factory.Content.Catalog)
	if err != nil {
		return nil, err
	}
	if err := h.profiles.Create(ctx, p); err != nil && !errors.Is(err, postgres.ErrProfileNameTaken) {
		return nil, fmt.Errorf("saving profile %q: %w", name, err)
	}
	return p, nil
}

func (h *DungeonHandler) chooseMode(ctx context.Context, conn *telnet.Conn) (encounter.Mode, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := conn.WritePrompt(RenderModeMenu() + "> "); err != nil {
			return 0, err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if isQuit(line) {
			return 0, errCancelled
		}
		switch line {
		case "1":
			return encounter.ModePvE, nil
		case "2":
			return encounter.ModePvP, nil
		}
		if mode, err := encounter.ParseMode(line); err == nil {
			return mode, nil
		}
		if err := conn.WriteLine(telnet.Colorize(telnet.Red, "Choose 1, 2 or q.")); err != nil {
			return 0, err
		}
	}
}

// play drives one game until the player quits or a duel is finished.
func (h *DungeonHandler) play(ctx context.Context, conn *telnet.Conn, sess *session.Session, g encounter.Game, logger *zap.Logger) error {
	var recorded uuid.UUID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view.Advance(g)
		snap := g.Snapshot()
		sess.Publish(snap)
		h.record(ctx, g.Summary(), &recorded, logger)

		if err := conn.WritePrompt(telnet.ClearScreen + RenderSnapshot(snap)); err != nil {
			return err
		}
		if snap.Finished {
			return nil
		}
		if err := conn.WritePrompt("> "); err != nil {
			return err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		act, err := view.ParseCommand(line)
		if err != nil {
			if werr := conn.WriteLine(telnet.Colorize(telnet.Red, "Unknown command. Type 'help' for commands.")); werr != nil {
				return werr
			}
			if werr := h.pause(conn); werr != nil {
				return werr
			}
			continue
		}
		switch act.Kind {
		case view.ActQuit:
			return nil
		case view.ActHelp:
			if err := conn.WriteLines(view.Help()...); err != nil {
				return err
			}
			if err := h.pause(conn); err != nil {
				return err
			}
			continue
		case view.ActLog:
			if err := conn.WritePrompt(RenderLog(g.Log())); err != nil {
				return err
			}
			if err := h.pause(conn); err != nil {
				return err
			}
			continue
		}
		if err := view.Apply(g, act); err != nil {
			if !errors.Is(err, encounter.ErrWrongPhase) && !errors.Is(err, encounter.ErrInvalidMove) {
				logger.Error("game action failed", zap.Error(err))
				return err
			}
			if werr := conn.WriteLine(telnet.Colorize(telnet.Red, rejection(err, snap))); werr != nil {
				return werr
			}
			if werr := h.pause(conn); werr != nil {
				return werr
			}
		}
	}
}

func rejection(err error, s encounter.Snapshot) string {
	if errors.Is(err, encounter.ErrInvalidMove) {
		return fmt.Sprintf("Choose a move between 1 and %d.", len(s.Player.Moves))
	}
	return "You can't do that now."
}

// pause waits for ENTER so a message is read before the screen redraws.
func (h *DungeonHandler) pause(conn *telnet.Conn) error {
	if err := conn.WritePrompt("(press ENTER)"); err != nil {
		return err
	}
	_, err := conn.ReadLine()
	return err
}

// record stores a finished run once.
func (h *DungeonHandler) record(ctx context.Context, s encounter.RunSummary, recorded *uuid.UUID, logger *zap.Logger) {
	if s.Outcome == encounter.OutcomeInProgress || s.RunID == *recorded {
		return
	}
	*recorded = s.RunID
	logger.Info("run finished",
		zap.String("run_id", s.RunID.String()),
		zap.Stringer("mode", s.Mode),
		zap.String("outcome", string(s.Outcome)),
		zap.Int("floor", s.FloorNumber),
		zap.Int("enemies_defeated", s.EnemiesDefeated),
	)
	if h.runs == nil {
		return
	}
	if err := h.runs.Record(ctx, s); err != nil {
		logger.Error("recording run", zap.String("run_id", s.RunID.String()), zap.Error(err))
	}
}
