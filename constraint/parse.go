package constraint

import (
	"fmt"
	"reflect"
	"strings"
)

// scalarTypes maps textual type names to their Go types. This is the shared
// vocabulary used by CUE overload declarations and yaml scenarios.
var scalarTypes = map[string]reflect.Type{
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"string":  reflect.TypeOf(""),
	"bool":    reflect.TypeOf(false),
	"byte":    reflect.TypeOf(byte(0)),
	"rune":    reflect.TypeOf(rune(0)),
	"error":   reflect.TypeOf((*error)(nil)).Elem(),
}

// Parse builds a constraint from a textual spec.
//
// Accepted forms:
//   - "" , "any", "_"        wildcard
//   - scalar names           "int", "string", "float64", "bool", ...
//   - unions                 "int|string", "int|float64|string"
//   - erased containers      "slice", "[]int" (any element), "array",
//     "map", "map[string]int" (any key/element)
//
// Element and key types inside container specs are accepted but erased,
// matching how parameterized constraints are reduced to their base
// container type before matching.
func Parse(spec string) (Constraint, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "any" || spec == "_" {
		return Wildcard{}, nil
	}

	if strings.Contains(spec, "|") {
		parts := strings.Split(spec, "|")
		members := make([]Constraint, 0, len(parts))
		for _, p := range parts {
			m, err := Parse(p)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return OneOf(members...), nil
	}

	switch {
	case spec == "slice" || strings.HasPrefix(spec, "[]"):
		return Erased{Kind: reflect.Slice}, nil
	case spec == "array":
		return Erased{Kind: reflect.Array}, nil
	case spec == "map" || strings.HasPrefix(spec, "map["):
		return Erased{Kind: reflect.Map}, nil
	}

	if t, ok := scalarTypes[spec]; ok {
		return Concrete{Type: t}, nil
	}
	return nil, fmt.Errorf("unknown constraint spec %q", spec)
}

// MustParse is Parse that panics on error. Intended for declarations known
// valid at compile time, mostly in tests.
func MustParse(spec string) Constraint {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}
