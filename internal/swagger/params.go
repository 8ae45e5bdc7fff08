package swagger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/vmsgen/internal/metamodel"
)

const requestBodyParam = "request_body"

// Parameters of these methods travel in the query string unless they are
// path variables.
var queryMethods = map[string]bool{
	"get":     true,
	"delete":  true,
	"head":    true,
	"options": true,
}

var pathVariableRe = regexp.MustCompile(`\{([^{}]+)\}`)

func pathVariables(path string) map[string]bool {
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	vars := map[string]bool{}
	for _, m := range pathVariableRe.FindAllStringSubmatch(path, -1) {
		vars[m[1]] = true
	}
	return vars
}

// buildParameters places every operation parameter in the path, the query
// string, a header or the request body. Body fields are folded into one
// body parameter whose schema is synthesized as <service>_<operation>.
func (v *typeVisitor) buildParameters(serviceName string, op metamodel.Operation, path, method string) ([]any, error) {
	vars := pathVariables(path)
	params := []any{}
	var body []metamodel.Field

	for _, f := range op.Params {
		in := strings.ToLower(strings.TrimSpace(f.In))
		if in == "" {
			switch {
			case vars[f.Name]:
				in = "path"
			case queryMethods[method]:
				in = "query"
			default:
				in = "body"
			}
		}
		switch in {
		case "path":
			p := v.simpleParameter(f.Name, f.Documentation, f.Type, in)
			p["required"] = true
			params = append(params, p)
		case "query", "header":
			params = append(params, v.flatParameters(f, in)...)
		case "body":
			body = append(body, f)
		default:
			return nil, fmt.Errorf("parameter %s: unsupported location %q", f.Name, f.In)
		}
	}

	if len(body) > 0 {
		name := serviceName + "_" + op.Name
		def := Object{}
		v.defs[name] = def
		if err := v.fillStructure(def, "", body); err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		params = append(params, Object{
			"in":       "body",
			"name":     requestBodyParam,
			"required": true,
			"schema":   Object{"$ref": definitionsRef + name},
		})
	}
	return params, nil
}

// flatParameters expands a structure-typed query or header parameter into
// one parameter per field, named param.field.
func (v *typeVisitor) flatParameters(f metamodel.Field, in string) []any {
	t := unwrapOptional(f.Type)
	if t.Category == metamodel.UserDefined && t.UserDefined != nil && t.UserDefined.ResourceType == metamodel.StructureResource {
		s, ok := v.index.Structures[t.UserDefined.ResourceID]
		if ok {
			parentRequired := !f.Type.IsOptional()
			out := make([]any, 0, len(s.Fields))
			for _, sf := range s.Fields {
				p := v.simpleParameter(f.Name+"."+sf.Name, sf.Documentation, sf.Type, in)
				p["required"] = parentRequired && !sf.Type.IsOptional()
				out = append(out, p)
			}
			return out
		}
		v.log.Warn().Str("structure", t.UserDefined.ResourceID).Str("parameter", f.Name).Msg("cannot expand undeclared structure")
	}
	return []any{v.simpleParameter(f.Name, f.Documentation, f.Type, in)}
}

// simpleParameter describes a non-body parameter. Types without a primitive
// rendition degrade to string.
func (v *typeVisitor) simpleParameter(name, doc string, t metamodel.Type, in string) Object {
	p := Object{"name": name, "in": in, "required": !t.IsOptional()}
	if doc != "" {
		p["description"] = doc
	}
	t = unwrapOptional(t)
	if t.Category == metamodel.Generic && t.Generic != nil && t.Generic.Element != nil &&
		(t.Generic.Kind == metamodel.List || t.Generic.Kind == metamodel.Set) {
		p["type"] = "array"
		p["collectionFormat"] = "multi"
		elem := unwrapOptional(*t.Generic.Element)
		if elem.Category == metamodel.Builtin {
			VisitBuiltin(elem.Builtin, p)
			return p
		}
		items := Object{}
		v.primitiveSchema(elem, items)
		p["items"] = items
		return p
	}
	v.primitiveSchema(t, p)
	return p
}

func (v *typeVisitor) primitiveSchema(t metamodel.Type, into Object) {
	switch {
	case t.Category == metamodel.Builtin:
		VisitBuiltin(t.Builtin, into)
	case t.Category == metamodel.UserDefined && t.UserDefined != nil && t.UserDefined.ResourceType == metamodel.EnumerationResource:
		into["type"] = "string"
		if e, ok := v.index.Enumerations[t.UserDefined.ResourceID]; ok {
			into["enum"] = enumValues(e)
		}
	default:
		into["type"] = "string"
	}
}

func unwrapOptional(t metamodel.Type) metamodel.Type {
	for t.IsOptional() && t.Generic.Element != nil {
		t = *t.Generic.Element
	}
	return t
}
