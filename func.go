package datareport

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Func is a named formatting function used by [Formatted] selectors.
// Params lists the argument names Call expects; [NewFormatted] checks a
// selector against it.
type Func struct {
	Name   string
	Params []string
	Call   func(Args) (any, error)
}

// Args holds the merged arguments passed to a [Func].
type Args map[string]any

func (a Args) get(name string) (any, error) {
	v, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("argument %q not set", name)
	}
	return v, nil
}

// String returns the argument in its cell string form.
func (a Args) String(name string) (string, error) {
	v, err := a.get(name)
	if err != nil {
		return "", err
	}
	return stringify(v), nil
}

// Int returns an integer argument. Floats are accepted when integral and
// strings when they parse as a base 10 integer.
func (a Args) Int(name string) (int, error) {
	v, err := a.get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("argument %q is %T, want int", name, v)
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) (bool, error) {
	v, err := a.get(name)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if p, err := strconv.ParseBool(b); err == nil {
			return p, nil
		}
	}
	return false, fmt.Errorf("argument %q is %T, want bool", name, v)
}

// Time returns a time argument. Strings are parsed as RFC 3339 or as a bare
// 2006-01-02 date.
func (a Args) Time(name string) (time.Time, error) {
	v, err := a.get(name)
	if err != nil {
		return time.Time{}, err
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if p, err := time.Parse(layout, t); err == nil {
				return p, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("argument %q is %T, want time", name, v)
}

// --- Built-in funcs ---

// Indent prefixes s with size dots.
var Indent = Func{
	Name:   "indent",
	Params: []string{"s", "size"},
	Call: func(a Args) (any, error) {
		s, err := a.String("s")
		if err != nil {
			return nil, err
		}
		size, err := a.Int("size")
		if err != nil {
			return nil, err
		}
		if size < 0 {
			return nil, fmt.Errorf("negative indent %d", size)
		}
		return strings.Repeat(".", size) + s, nil
	},
}

// Link renders chat link markup "<url|text>". Only text counts toward the
// column width.
var Link = Func{
	Name:   "link",
	Params: []string{"url", "text"},
	Call: func(a Args) (any, error) {
		url, err := a.String("url")
		if err != nil {
			return nil, err
		}
		text, err := a.String("text")
		if err != nil {
			return nil, err
		}
		return "<" + url + "|" + text + ">", nil
	},
}

// Check renders a boolean as a checkbox.
var Check = Func{
	Name:   "check",
	Params: []string{"done"},
	Call: func(a Args) (any, error) {
		done, err := a.Bool("done")
		if err != nil {
			return nil, err
		}
		if done {
			return "[x]", nil
		}
		return "[ ]", nil
	},
}

// Date formats a time with a Go layout.
var Date = Func{
	Name:   "date",
	Params: []string{"t", "layout"},
	Call: func(a Args) (any, error) {
		t, err := a.Time("t")
		if err != nil {
			return nil, err
		}
		layout, err := a.String("layout")
		if err != nil {
			return nil, err
		}
		return t.Format(layout), nil
	},
}

// Builtins returns the built-in funcs.
func Builtins() []Func {
	return []Func{Indent, Link, Check, Date}
}

// --- Registry ---

// Registry maps names to funcs so report schemas can be declared in
// configuration files.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry holding funcs.
func NewRegistry(funcs ...Func) *Registry {
	r := &Registry{funcs: make(map[string]Func, len(funcs))}
	for _, fn := range funcs {
		r.funcs[fn.Name] = fn
	}
	return r
}

// Register adds fn, replacing any func with the same name.
func (r *Registry) Register(fn Func) error {
	if fn.Name == "" {
		return fmt.Errorf("%w: func has no name", ErrMalformedSelector)
	}
	if fn.Call == nil {
		return fmt.Errorf("%w: func %q has no implementation", ErrMalformedSelector, fn.Name)
	}
	r.funcs[fn.Name] = fn
	return nil
}

// Lookup returns the func registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return Func{}, fmt.Errorf("%w: %q", ErrUnknownFunc, name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}
