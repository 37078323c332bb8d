package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Monetary and unit values render with Brazilian Portuguese separators
// (1.234,56), matching the locale of the sales data.
var numberPrinter = message.NewPrinter(language.BrazilianPortuguese)

func formatMoney(v float64) string {
	return numberPrinter.Sprintf("%.2f", v)
}

func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// writeTable renders an aligned text table.
// Column widths are computed with runewidth so accented store and product
// names line up correctly in a terminal.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if cw := runewidth.StringWidth(cell); cw > widths[i] {
					widths[i] = cw
				}
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(headers)
	rule := make([]string, len(headers))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	writeRow(rule)
	for _, row := range rows {
		writeRow(row)
	}
}
