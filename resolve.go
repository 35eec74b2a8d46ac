package datareport

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// resolve returns the trimmed cell string sel selects from rec.
func resolve(sel Selector, rec Record) (string, error) {
	v, err := value(sel, rec)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stringify(v)), nil
}

func value(sel Selector, rec Record) (any, error) {
	switch s := sel.(type) {
	case Key:
		return lookupKey(rec, string(s))
	case Path:
		return lookupPath(rec, s)
	case Concat:
		return lookupConcat(rec, s)
	case Formatted:
		return s.call(rec)
	default:
		return nil, fmt.Errorf("%w: unsupported selector %T", ErrMalformedSelector, sel)
	}
}

func lookupKey(rec Record, key string) (any, error) {
	v, ok := rec[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	return v, nil
}

func lookupPath(rec Record, path Path) (any, error) {
	var cur any = rec
	for i, seg := range path {
		m, ok := asMapping(cur)
		if !ok {
			return nil, fmt.Errorf("%w: %q is %T, not a mapping", ErrMalformedSelector, path[:i].String(), cur)
		}
		v, ok := m[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, path[:i+1].String())
		}
		cur = v
	}
	return cur, nil
}

func lookupConcat(rec Record, keys Concat) (any, error) {
	parts := make([]string, len(keys))
	for i, key := range keys {
		v, err := lookupKey(rec, key)
		if err != nil {
			return nil, err
		}
		parts[i] = stringify(v)
	}
	return strings.Join(parts, " "), nil
}

func (f Formatted) call(rec Record) (any, error) {
	if f.Func.Call == nil {
		return nil, fmt.Errorf("%w: func %q has no implementation", ErrMalformedSelector, f.Func.Name)
	}
	args := make(Args, len(f.Entry)+len(f.Static))
	for name, sel := range f.Entry {
		v, err := value(sel, rec)
		if err != nil {
			return nil, err
		}
		args[name] = v
	}
	maps.Copy(args, f.Static)
	out, err := f.Func.Call(args)
	if err != nil {
		if errors.Is(err, ErrMissingField) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFormatFunc, f.Func.Name, err)
	}
	return out, nil
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// stringify converts a record value to its cell form.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		if s.Hour() == 0 && s.Minute() == 0 && s.Second() == 0 {
			return s.Format(time.DateOnly)
		}
		return s.Format("2006-01-02 15:04")
	case fmt.Stringer:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
