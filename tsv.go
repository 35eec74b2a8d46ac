package datareport

import (
	"fmt"
	"io"
	"strings"
)

var tsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

func writeTSV(w io.Writer, labels []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, joinTSV(labels)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, joinTSV(row)); err != nil {
			return err
		}
	}
	return nil
}

func joinTSV(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = tsvEscaper.Replace(c)
	}
	return strings.Join(out, "\t")
}
