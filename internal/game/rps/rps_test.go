package rps_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

func TestResolve_Table(t *testing.T) {
	cases := []struct {
		attacker, defender rps.MoveType
		want               rps.Advantage
	}{
		{rps.Rock, rps.Scissors, rps.Superior},
		{rps.Scissors, rps.Paper, rps.Superior},
		{rps.Paper, rps.Rock, rps.Superior},
		{rps.Scissors, rps.Rock, rps.Weak},
		{rps.Paper, rps.Scissors, rps.Weak},
		{rps.Rock, rps.Paper, rps.Weak},
		{rps.Rock, rps.Rock, rps.Neutral},
		{rps.Paper, rps.Paper, rps.Neutral},
		{rps.Scissors, rps.Scissors, rps.Neutral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rps.Resolve(tc.attacker, tc.defender), "%s vs %s", tc.attacker, tc.defender)
	}
}

func genMoveType() *rapid.Generator[rps.MoveType] {
	return rapid.SampledFrom(rps.MoveTypes())
}

func TestProperty_Resolve_SwapFlipsOutcome(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := genMoveType().Draw(rt, "a")
		b := genMoveType().Draw(rt, "b")
		fwd := rps.Resolve(a, b)
		rev := rps.Resolve(b, a)
		switch fwd {
		case rps.Superior:
			assert.Equal(rt, rps.Weak, rev)
		case rps.Weak:
			assert.Equal(rt, rps.Superior, rev)
		case rps.Neutral:
			assert.Equal(rt, rps.Neutral, rev)
			assert.Equal(rt, a, b)
		}
	})
}

func TestProperty_Resolve_EachTypeBeatsExactlyOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := genMoveType().Draw(rt, "a")
		wins := 0
		for _, b := range rps.MoveTypes() {
			if rps.Resolve(a, b) == rps.Superior {
				wins++
			}
		}
		assert.Equal(rt, 1, wins)
	})
}

func TestParseMoveType(t *testing.T) {
	for _, s := range []string{"Rock", "rock", " ROCK "} {
		mt, err := rps.ParseMoveType(s)
		require.NoError(t, err)
		assert.Equal(t, rps.Rock, mt)
	}
	_, err := rps.ParseMoveType("Lizard")
	assert.Error(t, err)
}

func TestMoveType_YAML(t *testing.T) {
	var v struct {
		Type rps.MoveType `yaml:"type"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`type: Scissors`), &v))
	assert.Equal(t, rps.Scissors, v.Type)

	assert.Error(t, yaml.Unmarshal([]byte(`type: Spock`), &v))

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Scissors")
}

func TestMoveType_ZeroValueIsInvalid(t *testing.T) {
	var mt rps.MoveType
	assert.Equal(t, rps.Unknown, mt)
	assert.False(t, mt.Valid())
	assert.NotContains(t, rps.MoveTypes(), mt)

	var v struct {
		Name string       `yaml:"name"`
		Type rps.MoveType `yaml:"type"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`name: Stab`), &v))
	assert.False(t, v.Type.Valid(), "a missing type must not decode as Rock")
}

func TestMoveType_String_Unknown(t *testing.T) {
	assert.Equal(t, "Unknown", rps.MoveType(42).String())
	assert.False(t, rps.MoveType(42).Valid())
}

func TestMoveType_JSON(t *testing.T) {
	out, err := json.Marshal(map[string]rps.MoveType{"type": rps.Paper})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Paper"}`, string(out))

	var v struct {
		Type rps.MoveType `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"rock"}`), &v))
	assert.Equal(t, rps.Rock, v.Type)
	assert.Error(t, json.Unmarshal([]byte(`{"type":"Spock"}`), &v))

	_, err = json.Marshal(rps.MoveType(9))
	assert.Error(t, err)
}
