package datareport

import (
	"fmt"
	"io"
	"text/template"
)

// writeGoTemplate executes tmplStr once per row, with the row's cells keyed
// by label as data. Referencing an unknown label is an error.
func writeGoTemplate(w io.Writer, tmplStr string, labels []string, rows [][]string) error {
	tmpl, err := template.New("row").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	for _, row := range rows {
		data := make(map[string]string, len(labels))
		for i, label := range labels {
			data[label] = row[i]
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
