package npc

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
)

// Quantity is a drop amount: a fixed count when Min == Max, otherwise a
// uniform inclusive range. In content it is written as an integer or as a
// two-element [min, max] list.
type Quantity struct {
	Min int
	Max int
}

// Fixed returns a Quantity that always yields n.
func Fixed(n int) Quantity { return Quantity{Min: n, Max: n} }

// UnmarshalYAML accepts an integer or a [min, max] sequence.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("quantity must be an integer or [min, max]: %w", err)
		}
		*q = Fixed(n)
		return nil
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("quantity range must hold integers: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("quantity range must have exactly 2 elements, got %d", len(pair))
		}
		*q = Quantity{Min: pair[0], Max: pair[1]}
		return nil
	default:
		return fmt.Errorf("quantity must be an integer or [min, max]")
	}
}

// MarshalYAML writes a fixed quantity as an integer and a range as a list.
func (q Quantity) MarshalYAML() (interface{}, error) {
	if q.Min == q.Max {
		return q.Min, nil
	}
	return []int{q.Min, q.Max}, nil
}

// Roll draws a count from the quantity.
//
// Precondition: 0 <= Min <= Max.
// Postcondition: result is in [Min, Max].
func (q Quantity) Roll(src dice.Source) int {
	return dice.IntRange(src, q.Min, q.Max)
}

// LootEntry is one independent drop in a loot table.
type LootEntry struct {
	Item     string   `yaml:"item"`
	Chance   float64  `yaml:"chance"`
	Quantity Quantity `yaml:"quantity"`
}

// LootTable is the ordered set of possible drops for a monster.
type LootTable []LootEntry

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: Returns nil iff every entry has a non-empty item, a chance in
// [0, 1] and 0 <= min <= max; an empty table is valid.
func (lt LootTable) Validate() error {
	for i, e := range lt {
		if e.Item == "" {
			return fmt.Errorf("loot table: entry[%d] must have a non-empty item", i)
		}
		if e.Chance < 0 || e.Chance > 1.0 {
			return fmt.Errorf("loot table: entry[%d] chance must be in [0, 1.0], got %f", i, e.Chance)
		}
		if e.Quantity.Min < 0 {
			return fmt.Errorf("loot table: entry[%d] quantity min must be >= 0, got %d", i, e.Quantity.Min)
		}
		if e.Quantity.Min > e.Quantity.Max {
			return fmt.Errorf("loot table: entry[%d] quantity min (%d) must be <= max (%d)", i, e.Quantity.Min, e.Quantity.Max)
		}
	}
	return nil
}

// Reward is one rolled drop.
type Reward struct {
	Item     string
	Quantity int
}

// RollRewards performs one independent Bernoulli trial per entry and rolls the
// quantity of every entry that drops.
//
// Precondition: lt has passed Validate; src must be non-nil.
// Postcondition: Returns a non-nil slice in table order with at most len(lt)
// rewards, each with Quantity in its entry's [Min, Max].
func RollRewards(lt LootTable, src dice.Source) []Reward {
	rewards := make([]Reward, 0, len(lt))
	for _, e := range lt {
		if src.Float64() >= e.Chance {
			continue
		}
		rewards = append(rewards, Reward{Item: e.Item, Quantity: e.Quantity.Roll(src)})
	}
	return rewards
}
