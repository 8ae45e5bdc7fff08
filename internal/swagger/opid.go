package swagger

import (
	"strconv"
	"strings"

	"github.com/stoewer/go-strcase"
)

const vendorPathPrefix = "com/vmware/"

// CamelizedOperationID derives an operation id from the method and the path
// segments, ignoring the vendor prefix, the query string and path variables:
// com/vmware/mock-path/{mock}/test with post gives postMockPathTest.
func CamelizedOperationID(path, method string) string {
	path = strings.ReplaceAll(path, vendorPathPrefix, "")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	path = strings.ReplaceAll(path, "-", "/")

	words := []string{method}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || strings.Contains(seg, "{") {
			continue
		}
		words = append(words, seg)
	}
	return strcase.LowerCamelCase(strings.Join(words, "_"))
}

// UniqueOperationIDs rewrites every operationId in paths with its camelized
// form. Paths are visited in lexical order and an id already handed out gets
// a numeric suffix.
func UniqueOperationIDs(paths Paths) {
	used := map[string]int{}
	for _, path := range sortedKeys(paths) {
		item := paths[path]
		for _, method := range sortedKeys(item) {
			id := CamelizedOperationID(path, method)
			if n := used[id]; n > 0 {
				used[id] = n + 1
				id += strconv.Itoa(n + 1)
			}
			used[id]++
			item[method]["operationId"] = id
		}
	}
}
