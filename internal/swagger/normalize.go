package swagger

import "strings"

const (
	vendorPrefix    = "com.vmware."
	referenceMarker = "$"
)

// NormalizePaths removes the vendor prefix from paths in place.
func NormalizePaths(paths Paths) {
	for _, key := range sortedKeys(paths) {
		item := paths[key]
		for _, op := range item {
			RemoveVendorPrefix(op)
		}
		renameKey(paths, key)
	}
}

// NormalizeDefinitions removes the vendor prefix from defs in place. Type
// names also have the reference marker replaced, matching the rewritten refs.
func NormalizeDefinitions(defs Definitions) {
	for _, key := range sortedKeys(defs) {
		RemoveVendorPrefix(defs[key])
		renameKey(defs, key)
	}
}

// RemoveVendorPrefix walks node and strips com.vmware. from every $ref,
// summary and description string; $ref values also have $ turned into _.
// A map holding a $ref loses its required flag.
func RemoveVendorPrefix(node any) {
	switch n := node.(type) {
	case Object:
		if _, ok := n["$ref"]; ok {
			delete(n, "required")
		}
		for key, value := range n {
			switch v := value.(type) {
			case string:
				switch key {
				case "$ref":
					n[key] = normalizeName(v)
				case "summary", "description":
					n[key] = strings.ReplaceAll(v, vendorPrefix, "")
				}
			default:
				RemoveVendorPrefix(v)
			}
		}
		for _, key := range sortedKeys(n) {
			if stripped := strings.ReplaceAll(key, vendorPrefix, ""); stripped != key {
				n[stripped] = n[key]
				delete(n, key)
			}
		}
	case []any:
		for _, item := range n {
			RemoveVendorPrefix(item)
		}
	case []Object:
		for _, item := range n {
			RemoveVendorPrefix(item)
		}
	case map[string]Object:
		for _, item := range n {
			RemoveVendorPrefix(item)
		}
	}
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, vendorPrefix, ""), referenceMarker, "_")
}

func renameKey[M ~map[string]V, V any](m M, key string) {
	renamed := normalizeName(key)
	if renamed == key {
		return
	}
	m[renamed] = m[key]
	delete(m, key)
}
