package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestFitCanvas(t *testing.T) {
	t.Parallel()

	out := fitCanvas("ab\ncdef", 4, 3)
	require.Equal(t, []string{"ab  ", "cdef", "    "}, strings.Split(out, "\n"))

	// Overflow is cut on both axes.
	out = fitCanvas("abcdef\n1\n2\n3", 3, 2)
	require.Equal(t, "abc\n1  ", out)
}

func TestPadRightANSI(t *testing.T) {
	t.Parallel()

	styled := "\x1b[31mab\x1b[0m"
	out := padRightANSI(styled, 5)
	require.Equal(t, 5, ansi.StringWidth(out))
	require.Contains(t, out, "\x1b[31m")

	// Truncation counts columns, not bytes.
	require.Equal(t, "ab", ansi.Strip(padRightANSI(styled, 2)))
	require.Equal(t, "abc", padRightANSI("abc", 3))
}

func TestDropColumns(t *testing.T) {
	t.Parallel()

	require.Equal(t, "cdef", dropColumns("abcdef", 2))
	require.Equal(t, "abcdef", dropColumns("abcdef", 0))
	require.Equal(t, "", ansi.Strip(dropColumns("ab", 5)))
}

func TestCompositeAtSplicesOverlay(t *testing.T) {
	t.Parallel()

	base := "aaaaaa\nbbbbbb\ncccccc"
	out := compositeAt(base, "XX\nYY", 2, 1, 6, 3)
	require.Equal(t, []string{"aaaaaa", "bbXXbb", "ccYYcc"}, strings.Split(out, "\n"))

	// Rows falling outside the canvas are skipped, not clipped oddly.
	out = compositeAt(base, "ZZ", 0, 5, 6, 3)
	require.Equal(t, fitCanvas(base, 6, 3), out)

	// Negative rows of a partially off-screen overlay are skipped too.
	out = compositeAt(base, "XX\nYY", 0, -1, 6, 3)
	require.Equal(t, []string{"YYaaaa", "bbbbbb", "cccccc"}, strings.Split(out, "\n"))
}

// The splice must keep every row at canvas width with styling intact, even
// when the cut lands inside a styled run.
func TestCompositeAtPreservesStyledBase(t *testing.T) {
	t.Parallel()

	base := "\x1b[32maaaaaa\x1b[0m\nbbbbbb"
	out := compositeAt(base, "XX", 2, 0, 6, 2)
	lines := strings.Split(out, "\n")
	require.Equal(t, "aaXXaa", ansi.Strip(lines[0]))
	require.Equal(t, 6, ansi.StringWidth(lines[0]))
	require.Contains(t, lines[0], "\x1b[32m")
	require.Equal(t, "bbbbbb", lines[1])
}

func TestCenterPopup(t *testing.T) {
	t.Parallel()

	base := strings.TrimSuffix(strings.Repeat("......\n", 5), "\n")
	out := centerPopup(base, "AB\nCD", 6, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "..AB..", lines[1])
	require.Equal(t, "..CD..", lines[2])
	require.Equal(t, "......", lines[0])

	// A zero canvas renders nothing rather than panicking.
	require.Equal(t, "", centerPopup(base, "AB", 0, 0))
}
