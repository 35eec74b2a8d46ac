package datareport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMissingField      = errors.New("missing field")
	ErrMalformedSelector = errors.New("malformed selector")
	ErrFormatFunc        = errors.New("format func failed")
	ErrUnknownFunc       = errors.New("unknown func")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTemplate   = errors.New("invalid template")
)

// Format represents an output format.
type Format string

const (
	Table    Format = "table"
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	TSV      Format = "tsv"
	Markdown Format = "markdown"
	JSONL    Format = "jsonl"
	HTML     Format = "html"
)

const goTemplatePrefix = "template="

// formats lists the fixed formats. GoTemplate is not included because it is
// parameterized.
var formats = []Format{Table, Text, JSON, YAML, CSV, TSV, Markdown, JSONL, HTML}

// GoTemplate returns a Format that renders each row with a Go text/template.
// The template sees the row as a map from label to cell, so "{{.Title}}" or
// {{index . "Due date"}} select cells. Each row is followed by a newline.
func GoTemplate(tmpl string) Format {
	return Format(goTemplatePrefix + tmpl)
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name. A name of the form "template=<text>" is
// parsed as [GoTemplate].
func ParseFormat(s string) (Format, error) {
	if strings.HasPrefix(s, goTemplatePrefix) {
		return Format(s), nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Option configures [Report.Write] and [Report.Marshal].
type Option func(*options)

type options struct {
	indent int
}

// WithIndent sets the left margin used by the Table and Text formats.
func WithIndent(n int) Option {
	return func(o *options) { o.indent = n }
}

// Write renders the report in format f and writes it to w. Table and Text
// output is terminated with a single CRLF.
func (r *Report) Write(w io.Writer, f Format, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch f {
	case Table:
		return writeString(w, r.Table, o.indent)
	case Text:
		return writeString(w, r.Text, o.indent)
	}

	rows, err := r.Cells()
	if err != nil {
		return err
	}
	labels := r.Labels()
	switch f {
	case JSON:
		return writeJSON(w, labels, rows)
	case YAML:
		return writeYAML(w, labels, rows)
	case CSV:
		return writeCSV(w, labels, rows)
	case TSV:
		return writeTSV(w, labels, rows)
	case Markdown:
		return writeMarkdown(w, labels, rows)
	case JSONL:
		return writeJSONL(w, labels, rows)
	case HTML:
		return writeHTML(w, labels, rows)
	default:
		if tmpl, ok := strings.CutPrefix(string(f), goTemplatePrefix); ok {
			return writeGoTemplate(w, tmpl, labels, rows)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal renders the report in format f and returns the bytes.
func (r *Report) Marshal(f Format, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, f, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeString(w io.Writer, render func(int) (string, error), indent int) error {
	s, err := render(indent)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	_, err = io.WriteString(w, s+crlf)
	return err
}
