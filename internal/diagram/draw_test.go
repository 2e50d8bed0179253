package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, src string) string {
	t.Helper()
	lines, err := NewEngine().Render(src, 0)
	require.NoError(t, err)
	return strings.Join(lines, "\n")
}

func TestDraw_TopDown(t *testing.T) {
	want := strings.Join([]string{
		"┌───────┐",
		"│ Start │",
		"└───┬───┘",
		"    │",
		"    │",
		"    │",
		"    ▼",
		" ┌─────┐",
		" │ End │",
		" └─────┘",
	}, "\n")
	assert.Equal(t, want, render(t, "graph TD\n A[Start] --> B[End]"))
}

func TestDraw_BottomUp(t *testing.T) {
	want := strings.Join([]string{
		"┌───┐",
		"│ B │",
		"└───┘",
		"  ▲",
		"  │",
		"  │",
		"  │",
		"┌─┴─┐",
		"│ A │",
		"└───┘",
	}, "\n")
	assert.Equal(t, want, render(t, "graph BT; A-->B"))
}

func TestDraw_LeftRight(t *testing.T) {
	want := strings.Join([]string{
		"┌───┐      ┌───┐",
		"│ A ├─────▶│ B │",
		"└───┘      └───┘",
	}, "\n")
	assert.Equal(t, want, render(t, "graph LR; A-->B"))
}

func TestDraw_LeftRightLabel(t *testing.T) {
	want := strings.Join([]string{
		"┌───┐   yes   ┌───┐",
		"│ A ├────────▶│ B │",
		"└───┘         └───┘",
	}, "\n")
	assert.Equal(t, want, render(t, "graph LR; A-->|yes|B"))
}

func TestDraw_RightLeft(t *testing.T) {
	want := strings.Join([]string{
		"┌───┐      ┌───┐",
		"│ B │◀─────┤ A │",
		"└───┘      └───┘",
	}, "\n")
	assert.Equal(t, want, render(t, "graph RL; A-->B"))
}

func TestDraw_FanOutMergesAtJunction(t *testing.T) {
	out := render(t, "graph TD\n A --> B\n A --> C")
	lines := strings.Split(out, "\n")

	// The junction row carries a tee where the stem meets the run.
	assert.Contains(t, lines[4], "┴")
	assert.Contains(t, lines[4], "┌")
	assert.Contains(t, lines[4], "┐")
	assert.Equal(t, 2, strings.Count(lines[6], "▼"))
}

func TestDraw_ShapesAndStyles(t *testing.T) {
	out := render(t, "graph TD\n A{Check} -.-> B([Done])\n B ==> C(Rest)")
	assert.Contains(t, out, "╱")
	assert.Contains(t, out, "< Check >")
	assert.Contains(t, out, "( Done )")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "┆")
	assert.Contains(t, out, "┃")
}

func TestDraw_SkipAndBackEdgesListedBelow(t *testing.T) {
	out := render(t, `graph TD
  A[Sample] --> B[Test]
  B --> C[Report]
  A -->|urgent| C
  C --> A`)

	assert.Contains(t, out, "↳ Sample → Report: urgent")
	assert.Contains(t, out, "↳ Report → Sample")
}

func TestDraw_SelfLoopListed(t *testing.T) {
	out := render(t, "graph TD\n A[Retry] --> A")
	assert.Contains(t, out, "↳ Retry → Retry")
}

func TestDraw_LongLabelsTruncated(t *testing.T) {
	e := Engine{MaxLabelWidth: 8}
	lines, err := e.Render("graph TD\n A[Erythrocyte sedimentation rate]", 0)
	require.NoError(t, err)
	assert.Contains(t, lines[1], "Erythro…")
}

func TestDraw_TooWide(t *testing.T) {
	_, err := NewEngine().Render("graph LR\n A[Sample collection] --> B[Centrifugation] --> C[Microscopy]", 30)
	assert.ErrorIs(t, err, ErrTooWide)
}

func TestDraw_WideRunesKeepColumns(t *testing.T) {
	lines, err := NewEngine().Render("graph TD\n A[検査]", 0)
	require.NoError(t, err)
	assert.Equal(t, "┌──────┐", lines[0])
	assert.Equal(t, "│ 検査 │", lines[1])
}

func TestDraw_Deterministic(t *testing.T) {
	src := "graph TD\n A --> B & C & D\n B --> E\n C --> E\n D --> F"
	first := render(t, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render(t, src))
	}
}
