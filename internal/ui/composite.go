package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ANSI-aware compositing for the pub card and modal overlays. The card slides
// over the browse view at an arbitrary row, so the base frame has to be
// spliced per line with escape sequences intact; plain string slicing would
// cut styling mid-sequence.

// compositeAt paints overlay onto base with its top-left corner at column x,
// row y. Rows of the overlay that fall outside the canvas are skipped.
func compositeAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(fitCanvas(base, width, height), height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		leftWidth := ansi.StringWidth(left)
		if leftWidth < x {
			left += strings.Repeat(" ", x-leftWidth)
		}

		overlayLine := padRightANSI(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := ""
		if width > 0 {
			right = dropColumns(target, pos)
			rightWidth := ansi.StringWidth(right)
			gap := width - pos - rightWidth
			if gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}
		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

// centerPopup paints popup centered on base. Used for modals.
func centerPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := splitToLines(popup, 0)
	w := maxLineWidth(lines)
	h := len(lines)
	x := (width - w) / 2
	if x < 0 {
		x = 0
	}
	y := (height - h) / 2
	if y < 0 {
		y = 0
	}
	return compositeAt(base, popup, x, y, width, height)
}

// fitCanvas pads or truncates s to exactly width x height cells.
func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dropColumns removes the first cols display columns from s, keeping any
// escape sequences that precede the cut intact.
func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
