package swagger

import "strings"

const (
	mediaTypeJSON = "application/json"

	securityBasicAuth = "basic_auth"
	securityAPIKey    = "api_key"
	sessionHeader     = "vmware-api-session-id"

	sessionPath   = "/com/vmware/cis/session"
	taskSuffix    = "$task"
	taskQuery     = "?vmw-task=true"
	headerAuthn   = "vmware-use-header-authn"
	headerAuthDoc = "Custom header to protect against CSRF attacks in browser based clients"
)

// Route carries everything BuildPath needs for one operation.
type Route struct {
	ServiceName string
	Method      string
	Path        string
	Summary     string
	Parameters  []any
	OperationID string
	Responses   any
	Consumes    any
	Produces    any
}

// BuildPath assembles the operation object of r. The object keeps its method
// and path until Cleanup so later passes can key on them.
func BuildPath(r Route, separator string) Object {
	params := r.Parameters
	if params == nil {
		params = []any{}
	}
	op := Object{
		"tags":        TagsFromServiceName(r.ServiceName, separator),
		"method":      r.Method,
		"path":        r.Path,
		"summary":     r.Summary,
		"parameters":  params,
		"responses":   r.Responses,
		"consumes":    r.Consumes,
		"produces":    r.Produces,
		"operationId": r.OperationID,
	}
	if r.Path == sessionPath && r.Method == "post" {
		op["security"] = []any{Object{securityBasicAuth: []string{}}}
	}
	PostProcessPath(op)
	return op
}

// PostProcessPath applies the vendor fixups: session creation requires the
// header-authentication parameter, and task operations are reached through
// the vmw-task query flag.
func PostProcessPath(op Object) {
	path, _ := op["path"].(string)
	method, _ := op["method"].(string)
	if path == sessionPath && method == "post" {
		params, _ := op["parameters"].([]any)
		op["parameters"] = append(params, Object{
			"in":          "header",
			"required":    true,
			"type":        "string",
			"name":        headerAuthn,
			"description": headerAuthDoc,
		})
	}
	if opID, _ := op["operationId"].(string); strings.HasSuffix(opID, taskSuffix) {
		op["path"] = path + taskQuery
	}
}

// TagsFromServiceName derives the single tag of a service: its dotted name
// without the first three segments, joined by separator. Names of three or
// fewer segments yield an empty tag.
func TagsFromServiceName(serviceName, separator string) []string {
	parts := strings.Split(serviceName, ".")
	if len(parts) <= 3 {
		return []string{""}
	}
	return []string{strings.Join(parts[3:], separator)}
}

// ResponseObjectName names the result type of an operation.
func ResponseObjectName(serviceName, operationName string) string {
	if operationName == "get" {
		return serviceName
	}
	return serviceName + "." + operationName
}
