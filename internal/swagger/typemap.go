package swagger

import "strings"

var builtinTypes = map[string]struct{}{
	"binary":           {},
	"boolean":          {},
	"datetime":         {},
	"double":           {},
	"dynamicstructure": {},
	"exception":        {},
	"id":               {},
	"long":             {},
	"opaque":           {},
	"secret":           {},
	"string":           {},
	"uri":              {},
}

// IsTypeBuiltin reports whether name (any case) is a metamodel builtin.
func IsTypeBuiltin(name string) bool {
	_, ok := builtinTypes[strings.ToLower(name)]
	return ok
}

type primitive struct {
	typ    string
	format string
}

var primitives = map[string]primitive{
	"date_time":         {"string", "date-time"},
	"secret":            {"string", "password"},
	"any_error":         {"string", ""},
	"dynamic_structure": {"object", ""},
	"uri":               {"string", "uri"},
	"id":                {"string", ""},
	"long":              {"integer", "int64"},
	"double":            {"number", "double"},
	"binary":            {"string", "binary"},
}

// ConvertType maps a metamodel primitive to a Swagger type and format.
// Unknown names pass through lower-cased with no format.
func ConvertType(name string) (typ, format string) {
	lower := strings.ToLower(name)
	if p, ok := primitives[lower]; ok {
		return p.typ, p.format
	}
	return lower, ""
}

// VisitBuiltin writes the type and format of a builtin into prop. When prop
// is already an array the primitive describes its items.
func VisitBuiltin(name string, prop Object) {
	typ, format := ConvertType(name)
	target := prop
	if t, _ := prop["type"].(string); t == "array" {
		items, ok := prop["items"].(Object)
		if !ok {
			items = Object{}
			prop["items"] = items
		}
		target = items
	}
	target["type"] = typ
	if format != "" {
		target["format"] = format
	}
}
