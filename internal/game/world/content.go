// Package world holds the static game content (monster pool and equipment
// catalogs) and builds runs from it.
package world

import (
	"fmt"

	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
)

// Content is everything loaded from the content directory. It is read-only
// after Load and may be shared between concurrent runs.
type Content struct {
	Catalog *inventory.Catalog
	Pool    *npc.Pool
}

// Load reads the monster pool and the equipment catalogs.
//
// Precondition: monsters is a pool file or directory; equipmentDir holds the
// catalog files.
// Postcondition: Returns Content whose pool can populate every room, or an
// error. A pool missing a tier yields an error wrapping floor.ErrConfiguration.
func Load(monsters, equipmentDir string) (*Content, error) {
	templates, err := npc.LoadTemplates(monsters)
	if err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	catalog, err := inventory.LoadCatalog(equipmentDir)
	if err != nil {
		return nil, fmt.Errorf("loading equipment: %w", err)
	}
	c := &Content{Catalog: catalog, Pool: npc.NewPool(templates)}
	if err := floor.Validate(c.Pool); err != nil {
		return nil, err
	}
	return c, nil
}
