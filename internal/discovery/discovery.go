// Package discovery groups service URLs of a vAPI endpoint and picks the
// canonical URL among alternative link relations of one action.
package discovery

import "strings"

const (
	vendorPathPrefix = "/com/vmware/"
	actionMarker     = "~action"
	idMarker         = "id:"
)

// Link is one (href, method) relation reaching an operation.
type Link struct {
	Href   string
	Method string
}

// CategorizeServiceURLs groups urls by their package name: the first path
// segment left after removing baseURL and the /com/vmware/ prefix. Input
// order is kept within each group.
func CategorizeServiceURLs(urls []string, baseURL string) map[string][]string {
	out := make(map[string][]string)
	for _, u := range urls {
		name := PackageName(u, baseURL)
		out[name] = append(out[name], u)
	}
	return out
}

// PackageName returns the package segment of a service URL.
func PackageName(serviceURL, baseURL string) string {
	rest := strings.TrimPrefix(serviceURL, baseURL)
	if i := strings.Index(rest, vendorPathPrefix); i >= 0 {
		rest = rest[i+len(vendorPathPrefix):]
	}
	rest = strings.TrimLeft(rest, "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// FindURL picks one link among candidates describing the same action:
// the only one, else the first without ~action, else the first carrying an
// id: segment, else the first. It returns empty strings for no candidates.
func FindURL(links []Link) (string, string) {
	if len(links) == 0 {
		return "", ""
	}
	if len(links) == 1 {
		return links[0].Href, links[0].Method
	}
	for _, l := range links {
		if !strings.Contains(l.Href, actionMarker) {
			return l.Href, l.Method
		}
	}
	for _, l := range links {
		if strings.Contains(l.Href, idMarker) {
			return l.Href, l.Method
		}
	}
	return links[0].Href, links[0].Method
}
