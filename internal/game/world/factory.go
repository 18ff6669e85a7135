package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
)

// Factory builds started games for a profile.
type Factory struct {
	Content *Content
	Base    character.Base
	LogView int
	// Seed makes every game replay the same draws; zero uses crypto/rand.
	Seed   uint64
	Logger *zap.Logger
}

// NewGame builds and starts a game in the given mode.
//
// Precondition: f.Content and p must be non-nil; p must be valid.
// Postcondition: Returns a started Game (phase EnemyTurn) or an error. In PvE
// a floor error wraps floor.ErrConfiguration.
func (f *Factory) NewGame(mode encounter.Mode, p *character.Profile) (encounter.Game, error) {
	if f.Content == nil {
		return nil, errors.New("world: factory has no content")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("player", p.Name), zap.Stringer("mode", mode))
	src := dice.NewLoggedSource(dice.NewSource(f.Seed), logger)
	player := encounter.ProfilePlayer(p, f.Base)

	var (
		g   encounter.Game
		err error
	)
	switch mode {
	case encounter.ModePvP:
		g, err = encounter.NewDuel(encounter.DuelOptions{
			Player:  player,
			Source:  src,
			Logger:  logger,
			LogView: f.LogView,
		})
	default:
		g, err = encounter.NewDirector(encounter.Options{
			Player:   player,
			Floors:   floor.NewGenerator(f.Content.Pool, src, logger),
			Resolver: combat.NewPvEResolver(src),
			Source:   src,
			Logger:   logger,
			LogView:  f.LogView,
		})
	}
	if err != nil {
		return nil, err
	}
	if err := g.Start(); err != nil {
		return nil, fmt.Errorf("world: starting %s game: %w", mode, err)
	}
	return g, nil
}
