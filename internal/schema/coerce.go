package schema

import "fmt"

// ValueFor coerces a raw Go value (int, int32, int64, float32, float64,
// or string) into a Value matching col's Kind, the way the Python
// original's dynamically-typed callers hand plain ints/floats/strs to
// pack_row regardless of the interpreter's own numeric type.
func ValueFor(col Column, raw any) (Value, error) {
	if raw == nil {
		return Null(), nil
	}

	switch col.Kind {
	case Int:
		i, ok := toInt32(raw)
		if !ok {
			return Value{}, fmt.Errorf("schema: column %q wants INT, got %T", col.Name, raw)
		}
		return IntValue(i), nil

	case Float:
		f, ok := toFloat64(raw)
		if !ok {
			return Value{}, fmt.Errorf("schema: column %q wants FLOAT, got %T", col.Name, raw)
		}
		return FloatValue(f), nil

	case Varchar, Date:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("schema: column %q wants text, got %T", col.Name, raw)
		}
		return TextValue(col.Kind, s), nil

	default:
		return Value{}, fmt.Errorf("%w: column %q", ErrUnsupportedType, col.Name)
	}
}

func toInt32(raw any) (int32, bool) {
	switch v := raw.(type) {
	case int32:
		return v, true
	case int:
		return int32(v), true
	case int64:
		return int32(v), true
	default:
		return 0, false
	}
}

func toFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	default:
		return 0, false
	}
}
