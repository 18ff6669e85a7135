package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
)

func TestCreator_FullFlow(t *testing.T) {
	c := character.NewCreator("Aria", testCatalog())
	assert.Equal(t, character.StepAscendancy, c.Step())
	assert.Equal(t, "Choose Your Ascendancy", c.Step().Title())
	assert.Len(t, c.Options(), 2)

	require.NoError(t, c.Select(1))
	assert.Equal(t, character.StepWeapon, c.Step())
	assert.Equal(t, "Rock, 15 damage", c.Options()[1].Detail)
	require.NoError(t, c.Select(1))
	require.NoError(t, c.Select(0))
	assert.Equal(t, character.StepSpell, c.Step())
	require.NoError(t, c.Select(0))
	assert.True(t, c.Done())
	assert.Empty(t, c.Options())

	p, err := c.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Aria", p.Name)
	assert.Equal(t, "Tide Walker", p.Ascendancy.Name)
	assert.Equal(t, "War Maul", p.Weapon.Name)
	assert.Equal(t, "Leather Vest", p.Armor.Name)
	require.NotNil(t, p.Spell)
	assert.Equal(t, "Fireball", p.Spell.Name)
	assert.NoError(t, p.Validate())
}

func TestCreator_SkipSpell(t *testing.T) {
	c := character.NewCreator("", testCatalog())
	assert.ErrorIs(t, c.Skip(), character.ErrWrongStep)
	require.NoError(t, c.Select(0))
	require.NoError(t, c.Select(0))
	require.NoError(t, c.Select(0))
	require.NoError(t, c.Skip())

	p, err := c.Profile()
	require.NoError(t, err)
	assert.Nil(t, p.Spell)
}

func TestCreator_RejectsBadInput(t *testing.T) {
	c := character.NewCreator("x", testCatalog())
	_, err := c.Profile()
	assert.ErrorIs(t, err, character.ErrWrongStep)

	assert.ErrorIs(t, c.Select(5), character.ErrInvalidChoice)
	assert.ErrorIs(t, c.Select(-1), character.ErrInvalidChoice)
	assert.Equal(t, character.StepAscendancy, c.Step())

	for i := 0; i < 4; i++ {
		require.NoError(t, c.Select(0))
	}
	assert.ErrorIs(t, c.Select(0), character.ErrWrongStep)
	assert.ErrorIs(t, c.Skip(), character.ErrWrongStep)
}

func TestCreator_ProfileIsDetachedFromCatalog(t *testing.T) {
	cat := testCatalog()
	c := character.NewCreator("x", cat)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Select(0))
	}
	p, err := c.Profile()
	require.NoError(t, err)
	cat.Weapons[0].Damage = 1
	cat.Spells[0].Damage = 1
	assert.Equal(t, 12.0, p.Weapon.Damage)
	assert.Equal(t, 25.0, p.Spell.Damage)
}
