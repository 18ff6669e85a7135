package inventory

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ItemInstance is one pickup recorded in a satchel.
type ItemInstance struct {
	InstanceID string
	Item       string
	Quantity   int
}

// Stack is the accumulated quantity of one item.
type Stack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Satchel accumulates loot across a run. It has no capacity limits.
type Satchel struct {
	items []ItemInstance
}

// NewSatchel creates an empty Satchel.
func NewSatchel() *Satchel { return &Satchel{} }

// Add records quantity units of item as a new pickup.
//
// Precondition: item is non-empty.
// Postcondition: on success the pickup has a unique InstanceID; a zero
// quantity is accepted and recorded.
func (s *Satchel) Add(item string, quantity int) (*ItemInstance, error) {
	if item == "" {
		return nil, fmt.Errorf("satchel: item must not be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("satchel: quantity must be >= 0, got %d", quantity)
	}
	s.items = append(s.items, ItemInstance{
		InstanceID: uuid.NewString(),
		Item:       item,
		Quantity:   quantity,
	})
	inst := s.items[len(s.items)-1]
	return &inst, nil
}

// Items returns a copy of every pickup in order.
func (s *Satchel) Items() []ItemInstance {
	out := make([]ItemInstance, len(s.items))
	copy(out, s.items)
	return out
}

// Totals returns quantities summed per item, sorted by item name.
func (s *Satchel) Totals() []Stack {
	sums := make(map[string]int)
	for _, it := range s.items {
		sums[it.Item] += it.Quantity
	}
	out := make([]Stack, 0, len(sums))
	for item, q := range sums {
		out = append(out, Stack{Item: item, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// Count returns the total quantity held of item.
func (s *Satchel) Count(item string) int {
	n := 0
	for _, it := range s.items {
		if it.Item == item {
			n += it.Quantity
		}
	}
	return n
}

// Len returns the number of pickups.
func (s *Satchel) Len() int { return len(s.items) }

// Clear empties the satchel.
func (s *Satchel) Clear() { s.items = nil }
