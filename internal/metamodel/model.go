package metamodel

// Typed view of the vAPI metamodel consumed by the swagger generator.

// Category tags a Type reference.
type Category string

const (
	Builtin     Category = "BUILTIN"
	Generic     Category = "GENERIC"
	UserDefined Category = "USER_DEFINED"
)

// GenericKind is the generic wrapper of a GENERIC type reference.
type GenericKind string

const (
	List     GenericKind = "LIST"
	Set      GenericKind = "SET"
	Optional GenericKind = "OPTIONAL"
	Map      GenericKind = "MAP"
)

// Resource types of a user-defined reference.
const (
	StructureResource   = "com.vmware.vapi.structure"
	EnumerationResource = "com.vmware.vapi.enumeration"
)

// VoidType is the builtin name of an operation without output.
const VoidType = "VOID"

type Metamodel struct {
	Info     Info      `json:"info" yaml:"info"`
	Packages []Package `json:"packages" yaml:"packages"`
}

type Info struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Package struct {
	Name          string        `json:"name" yaml:"name"`
	Documentation string        `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Structures    []Structure   `json:"structures,omitempty" yaml:"structures,omitempty"`
	Enumerations  []Enumeration `json:"enumerations,omitempty" yaml:"enumerations,omitempty"`
	Services      []Service     `json:"services,omitempty" yaml:"services,omitempty"`
}

// Service is identified by its dotted name, e.g. com.vmware.cis.session.
type Service struct {
	Name          string        `json:"name" yaml:"name"`
	Documentation string        `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Operations    []Operation   `json:"operations,omitempty" yaml:"operations,omitempty"`
	Structures    []Structure   `json:"structures,omitempty" yaml:"structures,omitempty"`
	Enumerations  []Enumeration `json:"enumerations,omitempty" yaml:"enumerations,omitempty"`
}

// Operation describes one REST operation of a service. Path may carry a
// literal query string. When Path is empty, Links lists the alternative
// (href, method) relations the operation can be reached through.
type Operation struct {
	Name          string     `json:"name" yaml:"name"`
	Documentation string     `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Method        string     `json:"method,omitempty" yaml:"method,omitempty"`
	Path          string     `json:"path,omitempty" yaml:"path,omitempty"`
	Links         []Link     `json:"links,omitempty" yaml:"links,omitempty"`
	Params        []Field    `json:"params,omitempty" yaml:"params,omitempty"`
	Output        *Type      `json:"output,omitempty" yaml:"output,omitempty"`
	Errors        []ErrorRef `json:"errors,omitempty" yaml:"errors,omitempty"`
	Consumes      []string   `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces      []string   `json:"produces,omitempty" yaml:"produces,omitempty"`
}

type Link struct {
	Href   string `json:"href" yaml:"href"`
	Method string `json:"method" yaml:"method"`
}

// ErrorRef names a structure reported by an operation on failure.
type ErrorRef struct {
	Structure     string `json:"structure" yaml:"structure"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Field is a structure field or an operation parameter. In optionally pins
// the parameter location (path, query, header, body).
type Field struct {
	Name          string `json:"name" yaml:"name"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Type          Type   `json:"type" yaml:"type"`
	In            string `json:"in,omitempty" yaml:"in,omitempty"`
}

type Type struct {
	Category    Category         `json:"category" yaml:"category"`
	Builtin     string           `json:"builtin_type,omitempty" yaml:"builtin_type,omitempty"`
	Generic     *GenericType     `json:"generic_instantiation,omitempty" yaml:"generic_instantiation,omitempty"`
	UserDefined *UserDefinedType `json:"user_defined_type,omitempty" yaml:"user_defined_type,omitempty"`
}

type GenericType struct {
	Kind     GenericKind `json:"generic_type" yaml:"generic_type"`
	Element  *Type       `json:"element_type,omitempty" yaml:"element_type,omitempty"`
	MapKey   *Type       `json:"map_key_type,omitempty" yaml:"map_key_type,omitempty"`
	MapValue *Type       `json:"map_value_type,omitempty" yaml:"map_value_type,omitempty"`
}

type UserDefinedType struct {
	ResourceType string `json:"resource_type" yaml:"resource_type"`
	ResourceID   string `json:"resource_id" yaml:"resource_id"`
}

type Structure struct {
	Name          string  `json:"name" yaml:"name"`
	Documentation string  `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Fields        []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type Enumeration struct {
	Name          string      `json:"name" yaml:"name"`
	Documentation string      `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Values        []EnumValue `json:"values,omitempty" yaml:"values,omitempty"`
}

type EnumValue struct {
	Value         string `json:"value" yaml:"value"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// BuiltinType returns a BUILTIN reference to name.
func BuiltinType(name string) Type {
	return Type{Category: Builtin, Builtin: name}
}

// IsVoid reports whether t is absent or the VOID builtin.
func (t *Type) IsVoid() bool {
	return t == nil || (t.Category == Builtin && t.Builtin == VoidType)
}

// IsOptional reports whether t is an OPTIONAL generic.
func (t Type) IsOptional() bool {
	return t.Category == Generic && t.Generic != nil && t.Generic.Kind == Optional
}

// Index resolves user-defined resource ids to their declarations.
type Index struct {
	Structures   map[string]Structure
	Enumerations map[string]Enumeration
}

// Index collects every structure and enumeration declared at package or
// service level. Later declarations of the same name win.
func (m *Metamodel) Index() *Index {
	idx := &Index{
		Structures:   map[string]Structure{},
		Enumerations: map[string]Enumeration{},
	}
	add := func(structs []Structure, enums []Enumeration) {
		for _, s := range structs {
			idx.Structures[s.Name] = s
		}
		for _, e := range enums {
			idx.Enumerations[e.Name] = e
		}
	}
	for _, p := range m.Packages {
		add(p.Structures, p.Enumerations)
		for _, s := range p.Services {
			add(s.Structures, s.Enumerations)
		}
	}
	return idx
}
