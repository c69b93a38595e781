// Package format lays out lists of short strings as fixed-width columns for
// the console.
package format

import (
	"strings"

	"github.com/pterm/pterm"
)

// Placeholder marks a shortened string
const Placeholder = "..."

const (
	minIdealColumnWidth = 20
	fallbackTermWidth   = 80
)

// Shorten cuts s to width characters, ending it with placeholder when there
// is room for it
func Shorten(s string, width int, placeholder string) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	p := []rune(placeholder)
	if len(p) >= width {
		return string(r[:width])
	}
	return string(r[:width-len(p)]) + placeholder
}

// Pad right-pads s with spaces to width characters
func Pad(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// Fit shortens and pads s to exactly width characters. A non-positive
// width gives the empty string.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return Pad(Shorten(s, width, Placeholder), width)
}

// Columnize fits every string to columnWidth and groups them into rows of
// columns cells. The first cell of each row is indented by leftMargin
// spaces; the last row is filled with empty cells.
func Columnize(items []string, leftMargin, columns, columnWidth int) [][]string {
	if columns < 1 {
		columns = 1
	}
	if columnWidth < 0 {
		columnWidth = 0
	}

	var rows [][]string
	for i := 0; i < len(items); i += columns {
		row := make([]string, columns)
		for j := 0; j < columns; j++ {
			if i+j >= len(items) {
				break
			}
			cell := Fit(items[i+j], columnWidth)
			if j == 0 && leftMargin > 0 {
				cell = strings.Repeat(" ", leftMargin) + cell
			}
			row[j] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// AdaptiveColumnize picks the number of columns from the terminal width
func AdaptiveColumnize(items []string, leftMargin int) [][]string {
	termWidth := pterm.GetTerminalWidth()
	if termWidth <= 0 {
		termWidth = fallbackTermWidth
	}
	columns := termWidth / (minIdealColumnWidth + 1)
	if columns < 1 {
		columns = 1
	}
	width := minIdealColumnWidth
	if termWidth < width {
		width = termWidth
	}
	return Columnize(items, leftMargin, columns, width)
}

// Lines joins each row's cells with a single space
func Lines(rows [][]string) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " "))
	}
	return lines
}
