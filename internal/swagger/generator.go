package swagger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mark3labs/vmsgen/internal/discovery"
	"github.com/mark3labs/vmsgen/internal/metamodel"
)

const (
	defaultTitle   = "vSphere Automation API"
	defaultVersion = "1.0.0"
)

// Generator turns a metamodel into Swagger 2.0 documents.
type Generator struct {
	cfg Config
	log zerolog.Logger
}

type Option func(*Generator)

// WithLogger sets the logger used for progress and anomalies.
func WithLogger(l zerolog.Logger) Option { return func(g *Generator) { g.log = l } }

// New returns a Generator for cfg. An empty TagSeparator concatenates the
// tag segments; use DefaultConfig for the usual "/".
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, log: zerolog.Nop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate builds one document covering every service of mm.
func (g *Generator) Generate(mm *metamodel.Metamodel) (*Document, error) {
	var services []metamodel.Service
	for _, p := range mm.Packages {
		services = append(services, p.Services...)
	}
	title := mm.Info.Title
	if title == "" {
		title = defaultTitle
	}
	return g.build(mm.Index(), services, title, mm.Info)
}

// GenerateByPackage builds one document per package, keyed by the package
// segment of the service URLs (vcenter, cis, appliance, ...).
func (g *Generator) GenerateByPackage(mm *metamodel.Metamodel) (map[string]*Document, error) {
	byURL := map[string][]metamodel.Service{}
	var urls []string
	for _, p := range mm.Packages {
		for _, s := range p.Services {
			u := g.serviceURL(s.Name)
			if _, seen := byURL[u]; !seen {
				urls = append(urls, u)
			}
			byURL[u] = append(byURL[u], s)
		}
	}

	groups := discovery.CategorizeServiceURLs(urls, strings.TrimRight(g.cfg.BaseURL, "/"))
	idx := mm.Index()
	docs := make(map[string]*Document, len(groups))
	for _, name := range sortedKeys(groups) {
		var services []metamodel.Service
		for _, u := range groups[name] {
			services = append(services, byURL[u]...)
		}
		title := mm.Info.Title
		if title == "" {
			title = defaultTitle
		}
		g.log.Debug().Str("package", name).Int("services", len(services)).Msg("generating package document")
		doc, err := g.build(idx, services, title+" - "+name, mm.Info)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
		docs[name] = doc
	}
	return docs, nil
}

func (g *Generator) serviceURL(serviceName string) string {
	return strings.TrimRight(g.cfg.BaseURL, "/") + "/" + strings.ReplaceAll(serviceName, ".", "/")
}

// build walks services in order and then runs the rewrite passes: query
// deduplication, optional operation ids, prefix removal and cleanup.
func (g *Generator) build(idx *metamodel.Index, services []metamodel.Service, title string, info metamodel.Info) (*Document, error) {
	version := info.Version
	if version == "" {
		version = defaultVersion
	}
	doc := newDocument(g.cfg, title, version, info.Description)
	v := &typeVisitor{index: idx, defs: doc.Definitions, log: g.log}

	for _, svc := range services {
		g.log.Debug().Str("service", svc.Name).Int("operations", len(svc.Operations)).Msg("visiting service")
		for _, op := range svc.Operations {
			built, err := g.buildOperation(v, svc, op)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", svc.Name, op.Name, err)
			}
			path, _ := built["path"].(string)
			method, _ := built["method"].(string)
			item, ok := doc.Paths[path]
			if !ok {
				item = map[string]Object{}
				doc.Paths[path] = item
			}
			if _, dup := item[method]; dup {
				g.log.Warn().Str("path", path).Str("method", method).Str("operation", svc.Name+"."+op.Name).
					Msg("operation replaces an earlier one with the same path and method")
			}
			item[method] = built
		}
	}

	if err := RemoveQueryParams(doc.Paths); err != nil {
		return nil, err
	}
	if g.cfg.UniqueOperationIDs {
		UniqueOperationIDs(doc.Paths)
	}
	NormalizePaths(doc.Paths)
	NormalizeDefinitions(doc.Definitions)
	Cleanup(doc.Paths, doc.Definitions)
	doc.collectTags()
	return doc, nil
}

func (g *Generator) buildOperation(v *typeVisitor, svc metamodel.Service, op metamodel.Operation) (Object, error) {
	path, method := op.Path, op.Method
	if path == "" || method == "" {
		links := make([]discovery.Link, 0, len(op.Links))
		for _, l := range op.Links {
			links = append(links, discovery.Link{Href: l.Href, Method: l.Method})
		}
		href, m := discovery.FindURL(links)
		if path == "" {
			path = g.relativePath(href)
		}
		if method == "" {
			method = m
		}
	}
	method = strings.ToLower(method)
	if path == "" || method == "" {
		return nil, fmt.Errorf("%w: no path or method", ErrMalformedOperation)
	}

	params, err := v.buildParameters(svc.Name, op, path, method)
	if err != nil {
		return nil, err
	}
	responses, err := v.buildResponses(svc.Name, op)
	if err != nil {
		return nil, err
	}
	consumes, produces := op.Consumes, op.Produces
	if len(consumes) == 0 {
		consumes = []string{mediaTypeJSON}
	}
	if len(produces) == 0 {
		produces = []string{mediaTypeJSON}
	}
	g.log.Debug().Str("operation", op.Name).Str("method", method).Str("path", path).Msg("built operation")

	return BuildPath(Route{
		ServiceName: svc.Name,
		Method:      method,
		Path:        path,
		Summary:     op.Documentation,
		Parameters:  params,
		OperationID: op.Name,
		Responses:   responses,
		Consumes:    consumes,
		Produces:    produces,
	}, g.cfg.TagSeparator), nil
}

// relativePath strips the endpoint from a link href so the result is
// relative to the document basePath. Hrefs may be absolute or rooted at the
// server.
func (g *Generator) relativePath(href string) string {
	base := strings.TrimRight(g.cfg.BaseURL, "/")
	if base != "" && strings.HasPrefix(href, base) {
		return withLeadingSlash(href[len(base):])
	}
	if i := strings.Index(href, "://"); i >= 0 {
		rest := href[i+3:]
		j := strings.Index(rest, "/")
		if j < 0 {
			return "/"
		}
		href = rest[j:]
	}
	if href == "" {
		return ""
	}
	if _, basePath, _ := splitBaseURL(g.cfg.BaseURL); basePath != "" && basePath != "/" && strings.HasPrefix(href, basePath+"/") {
		href = href[len(basePath):]
	}
	return withLeadingSlash(href)
}

func withLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// PackageNames lists the keys of a per-package result in lexical order.
func PackageNames(docs map[string]*Document) []string {
	return sortedKeys(docs)
}
