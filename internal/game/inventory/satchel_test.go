package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
)

func TestSatchel_AddAndTotals(t *testing.T) {
	s := inventory.NewSatchel()
	a, err := s.Add("Gold Coin", 3)
	require.NoError(t, err)
	b, err := s.Add("Gold Coin", 2)
	require.NoError(t, err)
	_, err = s.Add("Bone", 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.InstanceID, b.InstanceID)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 5, s.Count("Gold Coin"))
	assert.Equal(t, []inventory.Stack{
		{Item: "Bone", Quantity: 1},
		{Item: "Gold Coin", Quantity: 5},
	}, s.Totals())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Totals())
}

func TestSatchel_AddRejectsBadInput(t *testing.T) {
	s := inventory.NewSatchel()
	_, err := s.Add("", 1)
	assert.Error(t, err)
	_, err = s.Add("x", -1)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestSatchel_ItemsIsACopy(t *testing.T) {
	s := inventory.NewSatchel()
	_, _ = s.Add("x", 1)
	items := s.Items()
	items[0].Quantity = 100
	assert.Equal(t, 1, s.Count("x"))
}

func TestProperty_Satchel_TotalsConserveQuantity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := inventory.NewSatchel()
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		want := 0
		for i := 0; i < n; i++ {
			item := rapid.SampledFrom([]string{"a", "b", "c"}).Draw(rt, "item")
			q := rapid.IntRange(0, 10).Draw(rt, "q")
			_, err := s.Add(item, q)
			require.NoError(rt, err)
			want += q
		}
		got := 0
		for _, st := range s.Totals() {
			got += st.Quantity
		}
		assert.Equal(rt, want, got)
	})
}
