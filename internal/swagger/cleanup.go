package swagger

// Cleanup drops the bookkeeping keys left by generation: method and path on
// every operation, and the per-property required flag of every definition
// (requiredness lives in the definition's own required list).
func Cleanup(paths Paths, defs Definitions) {
	for _, item := range paths {
		for _, op := range item {
			delete(op, "method")
			delete(op, "path")
		}
	}
	for _, def := range defs {
		props, ok := def["properties"].(Object)
		if !ok {
			continue
		}
		for _, prop := range props {
			if p, ok := prop.(Object); ok {
				delete(p, "required")
			}
		}
	}
}
