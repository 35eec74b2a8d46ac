package datareport

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders the report as a pipe-delimited ASCII table:
//
//	Title | Course
//	------+-------
//	HW1   | CS101
//	HW2   | MATH
//
// Every line, including the header and separator, is prefixed with indent
// spaces. Lines are joined with CRLF and the result has no trailing line
// break. A report without titles renders as the empty string.
func (r *Report) Table(indent int) (string, error) {
	if len(r.titles) == 0 {
		return "", nil
	}
	rows, err := r.Cells()
	if err != nil {
		return "", err
	}
	header := r.Labels()
	widths := computeWidths(header, rows)
	margin := strings.Repeat(" ", max(indent, 0))

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, tableRow(header, widths, margin), tableSep(widths, margin))
	for _, row := range rows {
		lines = append(lines, tableRow(row, widths, margin))
	}
	return strings.Join(lines, crlf), nil
}

// cellWidth returns the width a cell occupies in its column. Link markup of
// the form "<target|text>" only counts the text.
func cellWidth(s string) int {
	if _, text, ok := splitLink(s); ok {
		return runewidth.StringWidth(text)
	}
	return runewidth.StringWidth(s)
}

// splitLink splits link markup "<target|text>" into its parts. The text is
// trimmed.
func splitLink(s string) (target, text string, ok bool) {
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", "", false
	}
	target, text, ok = strings.Cut(s[1:len(s)-1], "|")
	return target, strings.TrimSpace(text), ok
}

func computeWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := cellWidth(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func tableRow(cells []string, widths []int, margin string) string {
	last := len(widths) - 1
	var sb strings.Builder
	sb.WriteString(margin)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == last {
			sb.WriteString(" ")
			sb.WriteString(cell)
			break
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", width-cellWidth(cell)))
		sb.WriteString(" |")
	}
	return sb.String()
}

func tableSep(widths []int, margin string) string {
	last := len(widths) - 1
	var sb strings.Builder
	sb.WriteString(margin)
	for i, width := range widths {
		switch {
		case i == 0:
			sb.WriteString(strings.Repeat("-", width+1))
		case i == last:
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", width+1))
		default:
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", width+2))
		}
	}
	return sb.String()
}
