package datareport

import (
	"encoding/json"
	"io"
)

func writeJSONL(w io.Writer, labels []string, rows [][]string) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(jsonRow{labels: labels, cells: row}); err != nil {
			return err
		}
	}
	return nil
}
