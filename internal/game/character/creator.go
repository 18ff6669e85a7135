package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
)

// ErrWrongStep is returned when a creator operation is not valid for the
// current step.
var ErrWrongStep = errors.New("character: operation not valid at this step")

// ErrInvalidChoice is returned for an option index out of range.
var ErrInvalidChoice = errors.New("character: invalid choice")

// Step is a stage of the character creator.
type Step int

const (
	StepAscendancy Step = iota
	StepWeapon
	StepArmor
	StepSpell
	StepDone
)

// String returns the step label.
func (s Step) String() string {
	switch s {
	case StepAscendancy:
		return "ascendancy"
	case StepWeapon:
		return "weapon"
	case StepArmor:
		return "armor"
	case StepSpell:
		return "spell"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Title returns the prompt shown for the step.
func (s Step) Title() string {
	switch s {
	case StepAscendancy:
		return "Choose Your Ascendancy"
	case StepWeapon:
		return "Choose Your Weapon"
	case StepArmor:
		return "Choose Your Armor"
	case StepSpell:
		return "Choose Your Spell (Optional)"
	default:
		return "Character Created!"
	}
}

// Option is one selectable entry of the current step.
type Option struct {
	ID     string
	Name   string
	Detail string
}

// Creator walks ascendancy, weapon, armor and an optional spell, in that order.
type Creator struct {
	catalog    *inventory.Catalog
	name       string
	step       Step
	ascendancy *inventory.Ascendancy
	weapon     *inventory.WeaponDef
	armor      *inventory.ArmorDef
	spell      *inventory.SpellDef
}

// NewCreator starts a creator for a character called name.
//
// Precondition: catalog must be non-nil and valid.
func NewCreator(name string, catalog *inventory.Catalog) *Creator {
	return &Creator{catalog: catalog, name: name, step: StepAscendancy}
}

// Step returns the current step.
func (c *Creator) Step() Step { return c.step }

// Done reports whether every step has been completed.
func (c *Creator) Done() bool { return c.step == StepDone }

// Options returns the choices for the current step; empty once done.
func (c *Creator) Options() []Option {
	var out []Option
	switch c.step {
	case StepAscendancy:
		for _, a := range c.catalog.Ascendances {
			out = append(out, Option{ID: a.ID, Name: a.Name, Detail: a.Description})
		}
	case StepWeapon:
		for _, w := range c.catalog.Weapons {
			out = append(out, Option{ID: w.ID, Name: w.Name, Detail: moveDetail(w.Type.String(), w.Damage)})
		}
	case StepArmor:
		for _, a := range c.catalog.Armors {
			out = append(out, Option{ID: a.ID, Name: a.Name, Detail: "armor " + combat.FormatAmount(a.ArmorValue)})
		}
	case StepSpell:
		for _, s := range c.catalog.Spells {
			out = append(out, Option{ID: s.ID, Name: s.Name, Detail: moveDetail(s.Type.String(), s.Damage)})
		}
	}
	return out
}

func moveDetail(kind string, dmg float64) string {
	return fmt.Sprintf("%s, %s damage", kind, combat.FormatAmount(dmg))
}

// Select chooses option i of the current step and advances.
//
// Postcondition: on error the creator is unchanged.
func (c *Creator) Select(i int) error {
	opts := c.Options()
	if c.step == StepDone {
		return fmt.Errorf("select: %w", ErrWrongStep)
	}
	if i < 0 || i >= len(opts) {
		return fmt.Errorf("select %d of %d at %s: %w", i, len(opts), c.step, ErrInvalidChoice)
	}
	switch c.step {
	case StepAscendancy:
		c.ascendancy = c.catalog.Ascendances[i]
	case StepWeapon:
		c.weapon = c.catalog.Weapons[i]
	case StepArmor:
		c.armor = c.catalog.Armors[i]
	case StepSpell:
		c.spell = c.catalog.Spells[i]
	}
	c.step++
	return nil
}

// Skip passes on the spell step. It is only valid at StepSpell.
func (c *Creator) Skip() error {
	if c.step != StepSpell {
		return fmt.Errorf("skip at %s: %w", c.step, ErrWrongStep)
	}
	c.spell = nil
	c.step = StepDone
	return nil
}

// Profile returns the finished profile.
//
// Postcondition: returns ErrWrongStep until Done.
func (c *Creator) Profile() (*Profile, error) {
	if c.step != StepDone {
		return nil, fmt.Errorf("profile at %s: %w", c.step, ErrWrongStep)
	}
	p := &Profile{
		Name:       c.name,
		Ascendancy: *c.ascendancy,
		Weapon:     *c.weapon,
		Armor:      *c.armor,
	}
	if c.spell != nil {
		s := *c.spell
		p.Spell = &s
	}
	return p, nil
}
