// Package swagger turns a vAPI metamodel into a Swagger 2.0 document.
//
// Operations and definitions are built as JSON-shaped maps so the later
// passes (query deduplication, operation ids, vendor prefix removal and
// cleanup) can rewrite them in place before serialization.
package swagger

import (
	"net/url"
	"sort"
	"strings"
)

// Object is a JSON object node of the document.
type Object = map[string]any

// Paths maps a URL path to its operations keyed by HTTP method.
type Paths map[string]map[string]Object

// Definitions maps a type name to its schema.
type Definitions map[string]Object

// Document is a Swagger 2.0 document.
type Document struct {
	Swagger             string      `json:"swagger" yaml:"swagger"`
	Info                Info        `json:"info" yaml:"info"`
	Host                string      `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath            string      `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Schemes             []string    `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Consumes            []string    `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces            []string    `json:"produces,omitempty" yaml:"produces,omitempty"`
	SecurityDefinitions Object      `json:"securityDefinitions,omitempty" yaml:"securityDefinitions,omitempty"`
	Security            []any       `json:"security,omitempty" yaml:"security,omitempty"`
	Tags                []Tag       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths               Paths       `json:"paths" yaml:"paths"`
	Definitions         Definitions `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Tag struct {
	Name string `json:"name" yaml:"name"`
}

// Config is the generation configuration shared by every pass.
type Config struct {
	// BaseURL is the target endpoint, e.g. https://vcenter.example.com/rest.
	BaseURL string
	// TagSeparator joins service name segments into a tag.
	TagSeparator string
	// UniqueOperationIDs replaces vendor operation ids with ids derived from
	// the path and method.
	UniqueOperationIDs bool
}

// DefaultTagSeparator is used when Config.TagSeparator is not set.
const DefaultTagSeparator = "/"

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{TagSeparator: DefaultTagSeparator}
}

func newDocument(cfg Config, title, version, description string) *Document {
	host, basePath, scheme := splitBaseURL(cfg.BaseURL)
	doc := &Document{
		Swagger:  "2.0",
		Info:     Info{Title: title, Version: version, Description: description},
		Host:     host,
		BasePath: basePath,
		Consumes: []string{mediaTypeJSON},
		Produces: []string{mediaTypeJSON},
		SecurityDefinitions: Object{
			securityBasicAuth: Object{"type": "basic"},
			securityAPIKey: Object{
				"type": "apiKey",
				"name": sessionHeader,
				"in":   "header",
			},
		},
		Security:    []any{Object{securityAPIKey: []string{}}},
		Paths:       Paths{},
		Definitions: Definitions{},
	}
	if scheme != "" {
		doc.Schemes = []string{scheme}
	}
	return doc
}

// collectTags lists the distinct operation tags of doc in lexical order.
func (d *Document) collectTags() {
	seen := map[string]struct{}{}
	for _, item := range d.Paths {
		for _, op := range item {
			tags, _ := op["tags"].([]string)
			for _, t := range tags {
				if t != "" {
					seen[t] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)
	d.Tags = d.Tags[:0]
	for _, n := range names {
		d.Tags = append(d.Tags, Tag{Name: n})
	}
}

func splitBaseURL(raw string) (host, basePath, scheme string) {
	if strings.TrimSpace(raw) == "" {
		return "", "", ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", ""
	}
	basePath = strings.TrimRight(u.Path, "/")
	if basePath == "" {
		basePath = "/"
	}
	return u.Host, basePath, strings.ToLower(u.Scheme)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
