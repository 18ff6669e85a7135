package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog file base names inside an equipment directory. Each may be written as
// .yaml, .yml or .json.
const (
	AscendancesFile = "ascendances"
	WeaponsFile     = "weapons"
	ArmorsFile      = "armors"
	SpellsFile      = "spells"
)

// Catalog holds every equipment choice offered by the character creator, in
// content order.
type Catalog struct {
	Ascendances []*Ascendancy
	Weapons     []*WeaponDef
	Armors      []*ArmorDef
	Spells      []*SpellDef
}

// Validate checks every record and rejects duplicate IDs within a category.
//
// Postcondition: returns nil iff all records are valid and at least one
// ascendancy, weapon and armor exist. Spells are optional.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Ascendances) == 0 {
		errs = append(errs, errors.New("at least one ascendancy is required"))
	}
	if len(c.Weapons) == 0 {
		errs = append(errs, errors.New("at least one weapon is required"))
	}
	if len(c.Armors) == 0 {
		errs = append(errs, errors.New("at least one armor is required"))
	}
	errs = append(errs, validateAll("ascendancy", c.Ascendances, func(a *Ascendancy) (string, error) { return a.ID, a.Validate() })...)
	errs = append(errs, validateAll("weapon", c.Weapons, func(w *WeaponDef) (string, error) { return w.ID, w.Validate() })...)
	errs = append(errs, validateAll("armor", c.Armors, func(a *ArmorDef) (string, error) { return a.ID, a.Validate() })...)
	errs = append(errs, validateAll("spell", c.Spells, func(s *SpellDef) (string, error) { return s.ID, s.Validate() })...)
	if len(errs) > 0 {
		return fmt.Errorf("inventory: catalog invalid: %w", errors.Join(errs...))
	}
	return nil
}

func validateAll[T any](kind string, items []T, check func(T) (string, error)) []error {
	var errs []error
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		id, err := check(it)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s ID %q already registered", kind, id))
		}
		seen[id] = true
	}
	return errs
}

// Weapon returns the weapon with the given id.
func (c *Catalog) Weapon(id string) (*WeaponDef, bool) { return find(c.Weapons, id, func(w *WeaponDef) string { return w.ID }) }

// Armor returns the armor with the given id.
func (c *Catalog) Armor(id string) (*ArmorDef, bool) { return find(c.Armors, id, func(a *ArmorDef) string { return a.ID }) }

// Spell returns the spell with the given id.
func (c *Catalog) Spell(id string) (*SpellDef, bool) { return find(c.Spells, id, func(s *SpellDef) string { return s.ID }) }

// Ascendancy returns the ascendancy with the given id.
func (c *Catalog) Ascendancy(id string) (*Ascendancy, bool) {
	return find(c.Ascendances, id, func(a *Ascendancy) string { return a.ID })
}

func find[T any](items []*T, id string, key func(*T) string) (*T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	return nil, false
}

// LoadCatalog reads the four equipment lists from dir. The spells file may be
// absent.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a validated Catalog with IDs derived from names where
// omitted, or the first encountered error.
func LoadCatalog(dir string) (*Catalog, error) {
	var c Catalog
	if err := loadList(dir, AscendancesFile, true, &c.Ascendances); err != nil {
		return nil, err
	}
	if err := loadList(dir, WeaponsFile, true, &c.Weapons); err != nil {
		return nil, err
	}
	if err := loadList(dir, ArmorsFile, true, &c.Armors); err != nil {
		return nil, err
	}
	if err := loadList(dir, SpellsFile, false, &c.Spells); err != nil {
		return nil, err
	}
	for _, a := range c.Ascendances {
		if a.ID == "" {
			a.ID = slug(a.Name)
		}
	}
	for _, w := range c.Weapons {
		if w.ID == "" {
			w.ID = slug(w.Name)
		}
	}
	for _, a := range c.Armors {
		if a.ID == "" {
			a.ID = slug(a.Name)
		}
	}
	for _, s := range c.Spells {
		if s.ID == "" {
			s.ID = slug(s.Name)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadList(dir, base string, required bool, out any) error {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("LoadCatalog: cannot read file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("LoadCatalog: cannot parse file %q: %w", path, err)
		}
		return nil
	}
	if required {
		return fmt.Errorf("LoadCatalog: no %s file in %q", base, dir)
	}
	return nil
}
