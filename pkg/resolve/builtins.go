package resolve

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// builtins are the capabilities every registry starts with. Definitions can
// rely on these without the host application registering anything.
var builtins = map[string]Capability{
	"eq": func(args ...any) (any, error) {
		if err := arity("eq", 2, args); err != nil {
			return nil, err
		}
		return equal(args[0], args[1]), nil
	},
	"neq": func(args ...any) (any, error) {
		if err := arity("neq", 2, args); err != nil {
			return nil, err
		}
		return !equal(args[0], args[1]), nil
	},
	"gt": func(args ...any) (any, error) {
		c, err := compare("gt", args)
		if err != nil {
			return nil, err
		}
		return c > 0, nil
	},
	"gte": func(args ...any) (any, error) {
		c, err := compare("gte", args)
		if err != nil {
			return nil, err
		}
		return c >= 0, nil
	},
	"lt": func(args ...any) (any, error) {
		c, err := compare("lt", args)
		if err != nil {
			return nil, err
		}
		return c < 0, nil
	},
	"lte": func(args ...any) (any, error) {
		c, err := compare("lte", args)
		if err != nil {
			return nil, err
		}
		return c <= 0, nil
	},
	"not": func(args ...any) (any, error) {
		if err := arity("not", 1, args); err != nil {
			return nil, err
		}
		return !Truthy(args[0]), nil
	},
	"and": func(args ...any) (any, error) {
		for _, a := range args {
			if !Truthy(a) {
				return false, nil
			}
		}
		return true, nil
	},
	"or": func(args ...any) (any, error) {
		for _, a := range args {
			if Truthy(a) {
				return true, nil
			}
		}
		return false, nil
	},
	"if": func(args ...any) (any, error) {
		if len(args) < 2 || len(args) > 3 {
			return nil, fmt.Errorf("if: want 2 or 3 args, got %d", len(args))
		}
		if Truthy(args[0]) {
			return args[1], nil
		}
		if len(args) == 3 {
			return args[2], nil
		}
		return nil, nil
	},
	"coalesce": func(args ...any) (any, error) {
		for _, a := range args {
			if a != nil {
				return a, nil
			}
		}
		return nil, nil
	},
	"defined": func(args ...any) (any, error) {
		if err := arity("defined", 1, args); err != nil {
			return nil, err
		}
		return args[0] != nil, nil
	},
	"empty": func(args ...any) (any, error) {
		if err := arity("empty", 1, args); err != nil {
			return nil, err
		}
		return Blank(args[0]), nil
	},
	"count": func(args ...any) (any, error) {
		if err := arity("count", 1, args); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case nil:
			return 0, nil
		case []any:
			// Cleared array entries leave nil holes; those do not count.
			n := 0
			for _, item := range v {
				if item != nil {
					n++
				}
			}
			return n, nil
		case map[string]any:
			return len(v), nil
		case string:
			return len(v), nil
		default:
			return nil, fmt.Errorf("count: cannot count %T", args[0])
		}
	},
	"sum": func(args ...any) (any, error) {
		total := 0.0
		for _, n := range numbers("sum", args) {
			total += n
		}
		return total, nil
	},
	"min": func(args ...any) (any, error) {
		ns := numbers("min", args)
		if len(ns) == 0 {
			return nil, nil
		}
		best := ns[0]
		for _, n := range ns[1:] {
			if n < best {
				best = n
			}
		}
		return best, nil
	},
	"max": func(args ...any) (any, error) {
		ns := numbers("max", args)
		if len(ns) == 0 {
			return nil, nil
		}
		best := ns[0]
		for _, n := range ns[1:] {
			if n > best {
				best = n
			}
		}
		return best, nil
	},
	"includes": func(args ...any) (any, error) {
		if err := arity("includes", 2, args); err != nil {
			return nil, err
		}
		switch haystack := args[0].(type) {
		case nil:
			return false, nil
		case []any:
			for _, item := range haystack {
				if equal(item, args[1]) {
					return true, nil
				}
			}
			return false, nil
		case string:
			needle, ok := args[1].(string)
			if !ok {
				return false, nil
			}
			return strings.Contains(haystack, needle), nil
		default:
			return nil, fmt.Errorf("includes: cannot search %T", args[0])
		}
	},
	"concat": func(args ...any) (any, error) {
		if len(args) > 0 {
			if _, ok := args[0].([]any); ok {
				var out []any
				for _, a := range args {
					if items, ok := a.([]any); ok {
						out = append(out, items...)
						continue
					}
					out = append(out, a)
				}
				return out, nil
			}
		}
		var b strings.Builder
		for _, a := range args {
			if a == nil {
				continue
			}
			fmt.Fprintf(&b, "%v", a)
		}
		return b.String(), nil
	},
	"matches": func(args ...any) (any, error) {
		if err := arity("matches", 2, args); err != nil {
			return nil, err
		}
		s, ok := args[0].(string)
		if !ok {
			return false, nil
		}
		expr, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("matches: pattern must be a string, got %T", args[1])
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("matches: %w", err)
		}
		return re.MatchString(s), nil
	},
}

func arity(name string, want int, args []any) error {
	if len(args) != want {
		return fmt.Errorf("%s: want %d args, got %d", name, want, len(args))
	}
	return nil
}

// equal compares with numeric coercion so 2 (config literal) matches 2.0
// (JSON-decoded data).
func equal(a, b any) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two numbers or two strings; anything else is an error.
func compare(name string, args []any) (int, error) {
	if err := arity(name, 2, args); err != nil {
		return 0, err
	}
	an, aok := toNumber(args[0])
	bn, bok := toNumber(args[1])
	if aok && bok {
		switch {
		case an < bn:
			return -1, nil
		case an > bn:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aok := args[0].(string)
	bs, bok := args[1].(string)
	if aok && bok {
		return strings.Compare(as, bs), nil
	}
	return 0, fmt.Errorf("%s: cannot compare %T and %T", name, args[0], args[1])
}

// numbers flattens args (expanding one level of lists) into their numeric
// values, skipping anything non-numeric.
func numbers(name string, args []any) []float64 {
	var out []float64
	for _, a := range args {
		if items, ok := a.([]any); ok {
			for _, item := range items {
				if n, ok := toNumber(item); ok {
					out = append(out, n)
				}
			}
			continue
		}
		if n, ok := toNumber(a); ok {
			out = append(out, n)
		}
	}
	return out
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
