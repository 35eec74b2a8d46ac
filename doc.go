// Package datareport renders lists of loosely structured records as aligned,
// human-readable tables.
//
// A [Report] is built from an ordered list of [Title] values, one per column,
// and a slice of [Record] maps. Each title pairs a label with a [Selector]
// describing how the cell is pulled out of a record:
//
//   - [Key] selects a top-level field, written "title"
//   - [Path] selects a nested field, written "course.professor"
//   - [Concat] joins fields with a space, written "first|last"
//   - [Formatted] passes fields through a [Func]
//
// Textual selectors are parsed once with [ParseSelector], usually through [T]:
//
//	r := datareport.New([]datareport.Title{
//		datareport.T("Title", "title"),
//		datareport.T("Course", "course.code"),
//	}, records)
//	out, err := r.Table(0)
//
// # Table Layout
//
// [Report.Table] produces a pipe-delimited table with a dashed separator under
// the header. Columns are as wide as their widest cell. Lines are joined with
// CRLF and there is no trailing line break, so the output can be posted to a
// chat message as is. Cells holding link markup such as "<https://x|Docs>"
// are measured by their visible text only.
//
// # Other Formats
//
// [Report.Write] and [Report.Marshal] render the same cells as text, JSON,
// JSON lines, YAML, CSV, TSV, Markdown or HTML. See [Formats]. [GoTemplate]
// runs a text/template once per row.
//
// # Formatting Funcs
//
// A [Func] declares its parameter names. [NewFormatted] binds parameters to
// record fields (entry params) or literal values (static params) and checks
// that exactly the declared parameters are supplied:
//
//	due := datareport.MustFormatted(datareport.Date,
//		map[string]string{"t": "due"},
//		map[string]any{"layout": "Jan 2"})
//
// Funcs can be looked up by name through a [Registry] when report schemas come
// from configuration.
//
// # Errors
//
// A field missing from a record renders as an empty cell. Structural problems
// are returned from the render methods:
//
//   - [ErrMalformedSelector]: a path indexes into a non-mapping value, or a
//     formatted selector does not match its func's parameters
//   - [ErrFormatFunc]: a func rejected its arguments
//   - [ErrUnknownFunc]: a registry lookup failed
//   - [ErrUnsupportedFormat]: unknown output format
//
// [ErrMissingField] is exported so funcs can report an absent value themselves.
package datareport
