package datareport

import (
	"fmt"
	"html"
	"io"
)

// writeHTML renders a bare <table>. Link markup becomes an anchor.
func writeHTML(w io.Writer, labels []string, rows [][]string) error {
	if len(labels) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "<table>"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "  <thead>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
		return err
	}
	for _, label := range labels {
		if _, err := fmt.Fprintf(w, "      <th>%s</th>\n", html.EscapeString(label)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  </thead>"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "  <tbody>"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
			return err
		}
		for _, cell := range row {
			if _, err := fmt.Fprintf(w, "      <td>%s</td>\n", htmlCell(cell)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "  </tbody>"); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "</table>")
	return err
}

func htmlCell(s string) string {
	if target, text, ok := splitLink(s); ok {
		return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(target), html.EscapeString(text))
	}
	return html.EscapeString(s)
}
