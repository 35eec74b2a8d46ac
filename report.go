package datareport

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

const crlf = "\r\n"

// Record is one row of input data. Values are strings, numbers, bools,
// times, nested mappings or sequences. Records in one report need not share
// keys.
type Record map[string]any

// Report renders records as a table or a label/value report. A Report is
// immutable once built.
type Report struct {
	titles  []Title
	records []Record
}

// New returns a report over records with one column per title. Titles with a
// repeated label collapse into one column that keeps the first position and
// the last selector.
func New(titles []Title, records []Record) *Report {
	seen := make(map[string]int, len(titles))
	var cols []Title
	for _, t := range titles {
		if i, ok := seen[t.Label]; ok {
			cols[i] = t
			continue
		}
		seen[t.Label] = len(cols)
		cols = append(cols, t)
	}
	return &Report{titles: cols, records: slices.Clone(records)}
}

// Titles returns the report columns in order.
func (r *Report) Titles() []Title { return slices.Clone(r.titles) }

// Labels returns the column labels in order.
func (r *Report) Labels() []string {
	labels := make([]string, len(r.titles))
	for i, t := range r.titles {
		labels[i] = t.Label
	}
	return labels
}

// Len returns the number of records.
func (r *Report) Len() int { return len(r.records) }

// Cells resolves every record against the titles. A field missing from a
// record yields an empty cell. Any other resolution failure is returned.
func (r *Report) Cells() ([][]string, error) {
	rows := make([][]string, len(r.records))
	for i, rec := range r.records {
		row := make([]string, len(r.titles))
		for j, t := range r.titles {
			s, err := resolve(t.Selector, rec)
			if err != nil {
				if errors.Is(err, ErrMissingField) {
					continue
				}
				return nil, fmt.Errorf("row %d, column %q: %w", i, t.Label, err)
			}
			row[j] = s
		}
		rows[i] = row
	}
	return rows, nil
}

// Text renders each record as "Label: value" lines, labels padded to the
// widest one and every line prefixed with indent spaces. Records are
// separated by an empty line. Lines end in CRLF except the last.
func (r *Report) Text(indent int) (string, error) {
	if len(r.titles) == 0 {
		return "", nil
	}
	rows, err := r.Cells()
	if err != nil {
		return "", err
	}
	labels := r.Labels()
	width := 0
	for _, l := range labels {
		width = max(width, runewidth.StringWidth(l))
	}
	margin := strings.Repeat(" ", max(indent, 0))
	var lines []string
	for i, row := range rows {
		if i > 0 {
			lines = append(lines, "")
		}
		for j, cell := range row {
			label := runewidth.FillRight(labels[j]+":", width+1)
			lines = append(lines, strings.TrimRight(margin+label+" "+cell, " "))
		}
	}
	return strings.Join(lines, crlf), nil
}
