package swagger

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mark3labs/vmsgen/internal/metamodel"
)

const definitionsRef = "#/definitions/"

// ErrMalformedType is returned for type references the visitor cannot
// resolve structurally (unknown category, generic without element type).
var ErrMalformedType = errors.New("malformed type reference")

// typeVisitor resolves metamodel types into schemas and registers the
// structures and enumerations it meets as definitions.
type typeVisitor struct {
	index *metamodel.Index
	defs  Definitions
	log   zerolog.Logger
}

func (v *typeVisitor) visit(t metamodel.Type, prop Object) error {
	switch t.Category {
	case metamodel.Builtin:
		VisitBuiltin(t.Builtin, prop)
		return nil
	case metamodel.Generic:
		return v.visitGeneric(t.Generic, prop)
	case metamodel.UserDefined:
		return v.visitUserDefined(t.UserDefined, prop)
	default:
		return fmt.Errorf("%w: category %q", ErrMalformedType, t.Category)
	}
}

func (v *typeVisitor) visitGeneric(g *metamodel.GenericType, prop Object) error {
	if g == nil {
		return fmt.Errorf("%w: generic without instantiation", ErrMalformedType)
	}
	switch g.Kind {
	case metamodel.List, metamodel.Set:
		if g.Element == nil {
			return fmt.Errorf("%w: %s without element type", ErrMalformedType, g.Kind)
		}
		prop["type"] = "array"
		if g.Kind == metamodel.Set {
			prop["uniqueItems"] = true
		}
		if g.Element.Category == metamodel.Builtin {
			VisitBuiltin(g.Element.Builtin, prop)
			return nil
		}
		items := Object{}
		if err := v.visit(*g.Element, items); err != nil {
			return err
		}
		prop["items"] = items
		return nil
	case metamodel.Optional:
		if g.Element == nil {
			return fmt.Errorf("%w: OPTIONAL without element type", ErrMalformedType)
		}
		return v.visit(*g.Element, prop)
	case metamodel.Map:
		if g.MapKey == nil || g.MapValue == nil {
			return fmt.Errorf("%w: MAP without key or value type", ErrMalformedType)
		}
		// Maps travel as lists of key/value entries on the wire.
		key, value := Object{}, Object{}
		if err := v.visit(*g.MapKey, key); err != nil {
			return err
		}
		if err := v.visit(*g.MapValue, value); err != nil {
			return err
		}
		prop["type"] = "array"
		prop["items"] = Object{
			"type":       "object",
			"properties": Object{"key": key, "value": value},
			"required":   []string{"key", "value"},
		}
		return nil
	default:
		return fmt.Errorf("%w: generic kind %q", ErrMalformedType, g.Kind)
	}
}

func (v *typeVisitor) visitUserDefined(u *metamodel.UserDefinedType, prop Object) error {
	if u == nil || u.ResourceID == "" {
		return fmt.Errorf("%w: user defined type without resource id", ErrMalformedType)
	}
	switch u.ResourceType {
	case metamodel.StructureResource:
		if err := v.defineStructure(u.ResourceID); err != nil {
			return err
		}
	case metamodel.EnumerationResource:
		v.defineEnumeration(u.ResourceID)
	default:
		return fmt.Errorf("%w: resource type %q", ErrMalformedType, u.ResourceType)
	}
	prop["$ref"] = definitionsRef + u.ResourceID
	return nil
}

func (v *typeVisitor) defineStructure(name string) error {
	if _, ok := v.defs[name]; ok {
		return nil
	}
	s, ok := v.index.Structures[name]
	if !ok {
		v.log.Warn().Str("structure", name).Msg("referenced structure is not declared")
		return nil
	}
	// Registered before the fields are visited so self references terminate.
	def := Object{}
	v.defs[name] = def
	if err := v.fillStructure(def, s.Documentation, s.Fields); err != nil {
		return fmt.Errorf("structure %s: %w", name, err)
	}
	return nil
}

// fillStructure writes an object schema for fields into def. Every property
// carries a required flag until Cleanup; the aggregate list stays.
func (v *typeVisitor) fillStructure(def Object, doc string, fields []metamodel.Field) error {
	def["type"] = "object"
	if doc != "" {
		def["description"] = doc
	}
	props := Object{}
	var required []string
	for _, f := range fields {
		prop := Object{}
		if f.Documentation != "" {
			prop["description"] = f.Documentation
		}
		if err := v.visit(f.Type, prop); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		isRequired := !f.Type.IsOptional()
		prop["required"] = isRequired
		if isRequired {
			required = append(required, f.Name)
		}
		props[f.Name] = prop
	}
	def["properties"] = props
	if len(required) > 0 {
		def["required"] = required
	}
	return nil
}

func (v *typeVisitor) defineEnumeration(name string) {
	if _, ok := v.defs[name]; ok {
		return
	}
	e, ok := v.index.Enumerations[name]
	if !ok {
		v.log.Warn().Str("enumeration", name).Msg("referenced enumeration is not declared")
		return
	}
	def := Object{"type": "string", "enum": enumValues(e)}
	if e.Documentation != "" {
		def["description"] = e.Documentation
	}
	v.defs[name] = def
}

func enumValues(e metamodel.Enumeration) []string {
	values := make([]string, 0, len(e.Values))
	for _, ev := range e.Values {
		values = append(values, ev.Value)
	}
	return values
}
