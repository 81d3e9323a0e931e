package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the terminal cell width of val, counting wide
// characters such as CJK text and emoji as two cells.
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth right-pads val with spaces to width display cells.
//
// Values already at or beyond width, and non-positive widths, are returned
// unchanged.
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}
