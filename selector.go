package datareport

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Selector describes how a cell is extracted from a [Record]. It is one of
// [Key], [Path], [Concat] or [Formatted]; the set is closed.
type Selector interface {
	selector()
}

// Key selects a single top-level field.
type Key string

// Path selects a nested field, indexing one mapping per segment.
type Path []string

// Concat joins several top-level fields with a single space. Segments are
// plain keys and are never split on ".".
type Concat []string

// Formatted passes resolved fields through a [Func]. Entry maps argument
// names to selectors resolved against the record; Static maps argument names
// to literal values and wins when both set the same argument.
type Formatted struct {
	Func   Func
	Entry  map[string]Selector
	Static map[string]any
}

func (Key) selector()       {}
func (Path) selector()      {}
func (Concat) selector()    {}
func (Formatted) selector() {}

// String returns the selector in its textual form.
func (k Key) String() string    { return string(k) }
func (p Path) String() string   { return strings.Join(p, ".") }
func (c Concat) String() string { return strings.Join(c, "|") }

// ParseSelector parses the textual selector forms. A string containing "|"
// is a [Concat]; otherwise a string containing "." is a [Path]; anything
// else is a [Key].
func ParseSelector(s string) Selector {
	if strings.Contains(s, "|") {
		return Concat(strings.Split(s, "|"))
	}
	if strings.Contains(s, ".") {
		return Path(strings.Split(s, "."))
	}
	return Key(s)
}

// NewFormatted builds a [Formatted] selector. Entry values are parsed with
// [ParseSelector]. The union of entry and static argument names must equal
// fn.Params exactly, otherwise the error wraps [ErrMalformedSelector].
func NewFormatted(fn Func, entry map[string]string, static map[string]any) (Formatted, error) {
	if fn.Call == nil {
		return Formatted{}, fmt.Errorf("%w: func %q has no implementation", ErrMalformedSelector, fn.Name)
	}
	f := Formatted{
		Func:   fn,
		Entry:  make(map[string]Selector, len(entry)),
		Static: maps.Clone(static),
	}
	given := make(map[string]bool, len(entry)+len(static))
	for name, sel := range entry {
		f.Entry[name] = ParseSelector(sel)
		given[name] = true
	}
	for name := range static {
		given[name] = true
	}
	for _, p := range fn.Params {
		if !given[p] {
			return Formatted{}, fmt.Errorf("%w: func %q: argument %q not supplied", ErrMalformedSelector, fn.Name, p)
		}
		delete(given, p)
	}
	if len(given) > 0 {
		extra := slices.Sorted(maps.Keys(given))
		return Formatted{}, fmt.Errorf("%w: func %q: unknown arguments %s", ErrMalformedSelector, fn.Name, strings.Join(extra, ", "))
	}
	return f, nil
}

// MustFormatted is like [NewFormatted] but panics on error. It is meant for
// report schemas declared as package variables.
func MustFormatted(fn Func, entry map[string]string, static map[string]any) Formatted {
	f, err := NewFormatted(fn, entry, static)
	if err != nil {
		panic(err)
	}
	return f
}

// Title is one output column: a label and the selector that fills it.
type Title struct {
	Label    string
	Selector Selector
}

// T builds a Title from a textual selector.
func T(label, selector string) Title {
	return Title{Label: label, Selector: ParseSelector(selector)}
}
