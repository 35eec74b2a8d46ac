package datareport

import (
	"bytes"
	"encoding/json"
	"io"
)

// jsonRow marshals one row as an object whose keys keep column order.
type jsonRow struct {
	labels []string
	cells  []string
}

func (r jsonRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range r.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.cells[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, labels []string, rows [][]string) error {
	out := make([]jsonRow, len(rows))
	for i, row := range rows {
		out[i] = jsonRow{labels: labels, cells: row}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
