// Package main runs the telnet dungeon server. Every connection plays its own
// single-player run.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/config"
	"github.com/cory-johannsen/rpsdungeon/internal/frontend/handlers"
	"github.com/cory-johannsen/rpsdungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/session"
	"github.com/cory-johannsen/rpsdungeon/internal/game/world"
	"github.com/cory-johannsen/rpsdungeon/internal/observability"
	"github.com/cory-johannsen/rpsdungeon/internal/server"
	"github.com/cory-johannsen/rpsdungeon/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "dungeonserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting dungeon server", zap.String("telnet_addr", cfg.Telnet.Addr()))

	content, err := world.Load(cfg.Game.Monsters, cfg.Game.EquipmentDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("monsters", content.Pool.Len()),
		zap.Int("ascendances", len(content.Catalog.Ascendances)),
		zap.Int("weapons", len(content.Catalog.Weapons)),
		zap.Int("armors", len(content.Catalog.Armors)),
		zap.Int("spells", len(content.Catalog.Spells)),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var (
		profiles handlers.ProfileStore = handlers.NewMemoryProfiles()
		runs     handlers.RunRecorder
	)
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		profiles = postgres.NewProfileRepository(pool.DB())
		runs = postgres.NewRunRepository(pool.DB())

		healthCtx, stopHealth := context.WithCancel(ctx)
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-healthCtx.Done():
						return nil
					case <-ticker.C:
						if err := pool.Health(healthCtx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() {
				stopHealth()
				pool.Close()
			},
		})
	} else {
		logger.Info("database disabled, profiles kept in memory")
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
	sessions := session.NewManager(cfg.Telnet.MaxSessions)
	handler := handlers.NewDungeonHandler(factory, profiles, runs, sessions, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)
	lifecycle.Add("telnet", acceptor)

	reportCtx, stopReport := context.WithCancel(ctx)
	lifecycle.Add("sessions", &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-reportCtx.Done():
					return nil
				case <-ticker.C:
					for _, info := range sessions.List() {
						logger.Debug("session active",
							zap.String("player", info.PlayerName),
							zap.String("remote_addr", info.RemoteAddr),
							zap.Bool("playing", info.Playing),
							zap.Stringer("mode", info.Mode),
							zap.Stringer("phase", info.Phase),
							zap.Int("floor", info.Floor),
							zap.Duration("connected", time.Since(info.StartedAt)),
						)
					}
					logger.Info("sessions", zap.Int("active", sessions.Count()))
				}
			}
		},
		StopFn: stopReport,
	})

	logger.Info("dungeon server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Int("max_sessions", cfg.Telnet.MaxSessions),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
