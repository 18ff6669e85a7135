// Package main runs the dungeon in the local terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/config"
	"github.com/cory-johannsen/rpsdungeon/internal/frontend/tui"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/world"
	"github.com/cory-johannsen/rpsdungeon/internal/observability"
	"github.com/cory-johannsen/rpsdungeon/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	modeFlag := flag.String("mode", "", "game mode: pve or pvp (default from config)")
	seed := flag.Uint64("seed", 0, "random seed (0 = config value)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *modeFlag != "" {
		cfg.Game.Mode = *modeFlag
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	mode, err := encounter.ParseMode(cfg.Game.Mode)
	if err != nil {
		log.Fatalf("invalid mode: %v", err)
	}

	// The screen owns the terminal, so logs always go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "dungeon.log"
	}
	logger, err := observability.NewLogger(cfg.Logging, "dungeon")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, mode, logger); err != nil && !errors.Is(err, tui.ErrQuit) {
		logger.Error("dungeon exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "dungeon: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, mode encounter.Mode, logger *zap.Logger) error {
	start := time.Now()
	content, err := world.Load(cfg.Game.Monsters, cfg.Game.EquipmentDir)
	if err != nil {
		return err
	}
	logger.Info("content loaded",
		zap.Int("monsters", content.Pool.Len()),
		zap.Int("weapons", len(content.Catalog.Weapons)),
		zap.Duration("elapsed", time.Since(start)),
	)

	ctx := context.Background()
	var runs *postgres.RunRepository
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		runs = postgres.NewRunRepository(pool.DB())
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	app := tui.New(screen, logger)
	app.OnRunEnd = func(s encounter.RunSummary) {
		if runs == nil {
			return
		}
		if err := runs.Record(ctx, s); err != nil {
			logger.Error("recording run", zap.String("run_id", s.RunID.String()), zap.Error(err))
		}
	}

	profile, err := loadOrCreateProfile(app, cfg.Game.Profile, content, logger)
	if err != nil {
		return err
	}

	factory := &world.Factory{
		Content: content,
		Base: character.Base{
			Health:  cfg.Game.PlayerHealth,
			Attack:  cfg.Game.PlayerAttack,
			Defense: cfg.Game.PlayerDefense,
		},
		LogView: cfg.Game.LogView,
		Seed:    cfg.Game.Seed,
		Logger:  logger,
	}
	g, err := factory.NewGame(mode, profile)
	if err != nil {
		return err
	}
	return app.Play(g)
}

// loadOrCreateProfile reads the profile file, running the creator and saving
// the result when the file does not exist.
func loadOrCreateProfile(app *tui.App, path string, content *world.Content, logger *zap.Logger) (*character.Profile, error) {
	p, err := character.LoadProfile(path)
	if err == nil {
		logger.Info("profile loaded", zap.String("path", path), zap.String("player", p.Name))
		return p, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	name, err := app.PromptName()
	if err != nil {
		return nil, err
	}
	p, err = app.CreateCharacter(character.NewCreator(name, content.Catalog))
	if err != nil {
		return nil, err
	}
	if err := character.SaveProfile(path, p); err != nil {
		return nil, err
	}
	logger.Info("profile created", zap.String("path", path), zap.String("player", p.Name))
	return p, nil
}
