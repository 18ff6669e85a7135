// Package main applies the profile and run-history schema migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/config"
	"github.com/cory-johannsen/rpsdungeon/internal/observability"
)

// migrator is the subset of *migrate.Migrate the tool drives.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
}

type options struct {
	configPath string
	dir        string
	direction  string
	steps      int
}

// parseOptions reads the command line.
//
// Postcondition: direction is "up", "down" or "version" and steps >= 0, or a
// non-nil error is returned.
func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "configs/dev.yaml", "path to configuration file")
	fs.StringVar(&o.dir, "migrations", "migrations", "path to the migrations directory")
	fs.StringVar(&o.direction, "direction", "up", "up, down, or version to report the current schema version")
	fs.IntVar(&o.steps, "steps", 0, "number of steps (0 = all)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.direction {
	case "up", "down", "version":
	default:
		return o, fmt.Errorf("invalid direction %q: must be up, down or version", o.direction)
	}
	if o.steps < 0 {
		return o, fmt.Errorf("steps must be >= 0, got %d", o.steps)
	}
	return o, nil
}

// run applies o to m and logs the resulting schema version.
func run(m migrator, o options, logger *zap.Logger) error {
	start := time.Now()
	var err error
	switch {
	case o.direction == "version":
	case o.direction == "up" && o.steps > 0:
		err = m.Steps(o.steps)
	case o.direction == "up":
		err = m.Up()
	case o.steps > 0:
		err = m.Steps(-o.steps)
	default:
		err = m.Down()
	}
	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		return fmt.Errorf("migrating %s: %w", o.direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", verr)
	}
	logger.Info("schema version",
		zap.String("direction", o.direction),
		zap.Bool("changed", o.direction != "version" && !noChange),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
	if dirty {
		return fmt.Errorf("schema version %d is dirty; fix it by hand and force the version", version)
	}
	return nil
}

func main() {
	o, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("migrate: %v", err)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Database.Enabled {
		logger.Warn("database is disabled in config; nothing to migrate", zap.String("config", o.configPath))
		return
	}

	m, err := migrate.New("file://"+o.dir, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("creating migrator", zap.String("migrations", o.dir), zap.Error(err))
	}
	defer m.Close()

	if err := run(m, o, logger); err != nil {
		logger.Error("migration failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
