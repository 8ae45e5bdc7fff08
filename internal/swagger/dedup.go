package swagger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOperation is returned when an operation lacks a key the
// builder always sets.
var ErrMalformedOperation = errors.New("malformed operation")

// RemoveQueryParams folds path keys carrying a literal query string into
// their base path. Every key=value pair becomes a required single-value enum
// query parameter of the variant's operations, and the operations move under
// the base path. A variant sharing a method with operations already under its
// base is an absolute duplicate and stays under its literal key, unchanged.
// Keys are visited in lexical order.
func RemoveQueryParams(paths Paths) error {
	for _, key := range sortedKeys(paths) {
		base, query, ok := strings.Cut(key, "?")
		if !ok {
			continue
		}
		item := paths[key]

		target, exists := paths[base]
		if exists && sharesMethod(target, item) {
			continue
		}
		for method, op := range item {
			params, ok := op["parameters"].([]any)
			if !ok {
				return fmt.Errorf("%w: %s %s has no parameters", ErrMalformedOperation, method, key)
			}
			op["parameters"] = append(params, queryParameters(query)...)
		}
		if !exists {
			target = map[string]Object{}
			paths[base] = target
		}
		for method, op := range item {
			target[method] = op
		}
		delete(paths, key)
	}
	return nil
}

func sharesMethod(a, b map[string]Object) bool {
	for method := range b {
		if _, ok := a[method]; ok {
			return true
		}
	}
	return false
}

// queryParameters returns fresh parameter objects for a literal query string.
func queryParameters(query string) []any {
	var out []any
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		out = append(out, Object{
			"name":        name,
			"in":          "query",
			"description": name + "=" + value,
			"required":    true,
			"type":        "string",
			"enum":        []string{value},
		})
	}
	return out
}
