package resolve

// Truthy reports whether a resolved value counts as "present and positive"
// for preconditions, required rules and decision outputs. Nil, false, the
// empty string and numeric zero are falsy; every other value, including
// empty lists and mappings, is truthy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint8:
		return val != 0
	case uint16:
		return val != 0
	case uint32:
		return val != 0
	case uint64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// Blank reports whether a data value counts as missing for required checks:
// nil, the empty string, an empty list, or a list whose first element is
// itself blank (arrays of cleared entries).
func Blank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		if len(val) == 0 {
			return true
		}
		return Blank(val[0])
	default:
		return false
	}
}
