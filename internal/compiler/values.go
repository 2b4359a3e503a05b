package compiler

// Normalize maps decoded scalar values onto the types the constraint
// vocabulary scores against. CUE and yaml decoders can produce int64 for
// whole numbers, but declared "int" constraints mean Go int; without this
// step a declared int overload would never match a decoded sample
// argument.
//
// Floats are left alone (a decoded 2.0 means float64), and composites
// normalize recursively.
func Normalize(v any) any {
	switch v := v.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		if v <= uint64(^uint(0)>>1) {
			return int(v)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// NormalizeArgs normalizes a positional argument list.
func NormalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = Normalize(a)
	}
	return out
}

// NormalizeKwargs normalizes a keyword argument map.
func NormalizeKwargs(kwargs map[string]any) map[string]any {
	if kwargs == nil {
		return nil
	}
	out := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		out[k] = Normalize(v)
	}
	return out
}
