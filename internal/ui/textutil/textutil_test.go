package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisualWidthCountsColumns(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, VisualWidth(""))
	require.Equal(t, 8, VisualWidth("The Harp"))
	require.Equal(t, 4, VisualWidth("café"))
	// CJK glyphs occupy two columns each.
	require.Equal(t, 8, VisualWidth("生ビール"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	// Fits: unchanged, no ellipsis.
	require.Equal(t, "The Harp", Truncate("The Harp", 8))
	require.Equal(t, "The Harp", Truncate("The Harp", 20))

	// Too long: cut with a trailing ellipsis, never wider than asked.
	got := Truncate("The Princess Louise", 10)
	require.Equal(t, "The Princ…", got)
	require.LessOrEqual(t, VisualWidth(got), 10)

	// A wide rune never gets split in half.
	got = Truncate("生ビール", 5)
	require.Equal(t, "生ビ…", got)
	require.LessOrEqual(t, VisualWidth(got), 5)

	// Degenerate widths.
	require.Equal(t, "", Truncate("anything", 0))
	require.Equal(t, "", Truncate("anything", -3))
	require.Equal(t, "…", Truncate("anything", 1))
}

func TestPadRightVisual(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ale   ", PadRightVisual("ale", 6))
	require.Equal(t, 6, VisualWidth(PadRightVisual("café", 6)))
	// Already wider: truncated instead of padded.
	require.Equal(t, "The P…", PadRightVisual("The Princess Louise", 6))
	require.Equal(t, "ale", PadRightVisual("ale", 3))
}

func TestPadLeftVisual(t *testing.T) {
	t.Parallel()

	require.Equal(t, "   ale", PadLeftVisual("ale", 6))
	require.Equal(t, "  生ビール", PadLeftVisual("生ビール", 10))
	require.Equal(t, "The P…", PadLeftVisual("The Princess Louise", 6))
}
