package datareport

import (
	"encoding/csv"
	"io"
)

func writeCSV(w io.Writer, labels []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(labels); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
