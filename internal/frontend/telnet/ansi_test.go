package telnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
	assert.Equal(t, "\033[32mhealth: 42\033[0m", Colorf(Green, "health: %d", 42))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
	assert.Equal(t, "plain text", StripANSI("plain text"))
	assert.Equal(t, "", StripANSI(""))
	assert.Equal(t, "\033[31", StripANSI("\033[31"), "unterminated sequence is kept")
}

func TestWidthAndPadRight(t *testing.T) {
	assert.Equal(t, 5, Width(Colorize(Bold, "Rock!")))
	assert.Equal(t, 4, Width("戦闘"), "east asian wide runes count double")

	padded := PadRight(Colorize(Red, "HP"), 6)
	assert.Equal(t, 6, Width(padded))
	assert.True(t, strings.HasSuffix(padded, "    "))
	assert.Equal(t, "toolong", PadRight("toolong", 3))
}

func TestPropertyStripANSIInversesColorize(t *testing.T) {
	colors := []string{Red, Green, Blue, Yellow, Cyan, Magenta, White, Bold, Dim}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

func TestPropertyStripANSIOutputShorterOrEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(StripANSI(text)), len(text))
	})
}

func TestPropertyPadRightReachesWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z ]{0,20}`).Draw(t, "text")
		width := rapid.IntRange(0, 40).Draw(t, "width")
		got := Width(PadRight(text, width))
		if got < width {
			t.Fatalf("PadRight(%q, %d) has width %d", text, width, got)
		}
	})
}
