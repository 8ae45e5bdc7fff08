package swagger

import (
	"strconv"
	"strings"

	"github.com/mark3labs/vmsgen/internal/metamodel"
)

const stdErrorsPrefix = "com.vmware.vapi.std.errors."

// HTTP status of every standard vAPI error.
var errorStatusCodes = map[string]int{
	"already_exists":                400,
	"already_in_desired_state":      400,
	"concurrent_change":             400,
	"feature_in_use":                400,
	"invalid_argument":              400,
	"invalid_element_configuration": 400,
	"invalid_element_type":          400,
	"invalid_request":               400,
	"not_allowed_in_current_state":  400,
	"operation_not_found":           400,
	"resource_busy":                 400,
	"resource_in_use":               400,
	"resource_inaccessible":         400,
	"unable_to_allocate_resource":   400,
	"unexpected_input":              400,
	"unsupported":                   400,
	"unverified_peer":               400,
	"unauthenticated":               401,
	"unauthorized":                  403,
	"not_found":                     404,
	"canceled":                      500,
	"error":                         500,
	"internal_server_error":         500,
	"service_unavailable":           503,
	"timed_out":                     504,
}

// ErrorStatus returns the HTTP status reported for an error structure.
// Anything outside the standard error package maps to 500.
func ErrorStatus(structure string) int {
	if !strings.HasPrefix(structure, stdErrorsPrefix) {
		return 500
	}
	if code, ok := errorStatusCodes[strings.TrimPrefix(structure, stdErrorsPrefix)]; ok {
		return code
	}
	return 500
}

// buildResponses describes the success response and one response per
// distinct error status. The success payload is wrapped in a definition
// named after the operation result with a single value property.
func (v *typeVisitor) buildResponses(serviceName string, op metamodel.Operation) (Object, error) {
	ok := Object{"description": "Success"}
	if !op.Output.IsVoid() {
		name := ResponseObjectName(serviceName, op.Name) + "_result"
		def := Object{}
		v.defs[name] = def
		if err := v.fillStructure(def, "", []metamodel.Field{{Name: "value", Type: *op.Output}}); err != nil {
			return nil, err
		}
		ok["schema"] = Object{"$ref": definitionsRef + name}
	}
	responses := Object{"200": ok}

	for _, e := range op.Errors {
		code := strconv.Itoa(ErrorStatus(e.Structure))
		if _, taken := responses[code]; taken {
			continue
		}
		desc := e.Documentation
		if desc == "" {
			desc = e.Structure
		}
		schema := Object{}
		ref := metamodel.Type{
			Category:    metamodel.UserDefined,
			UserDefined: &metamodel.UserDefinedType{ResourceType: metamodel.StructureResource, ResourceID: e.Structure},
		}
		if err := v.visit(ref, schema); err != nil {
			return nil, err
		}
		responses[code] = Object{"description": desc, "schema": schema}
	}
	return responses, nil
}
