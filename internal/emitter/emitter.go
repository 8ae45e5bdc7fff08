// Package emitter serializes generated documents to an output directory.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/vmsgen/internal/swagger"
)

// Format is the serialization of an emitted document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// Options controls how documents are written.
type Options struct {
	OutDir   string // required; target directory
	Format   Format // json when empty
	OpenAPI3 bool   // convert every document to OpenAPI 3 before writing
	Force    bool   // overwrite a non-empty directory
	DryRun   bool   // don't write, only plan
	Verbose  bool
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files.
type Result struct {
	Planned []PlannedFile
}

// Emit renders docs keyed by file stem (the package name, or a single name
// for a combined document) and writes them under opts.OutDir.
func Emit(ctx context.Context, docs map[string]*swagger.Document, opts Options) (*Result, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("emitter: no documents")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}

	files := map[string][]byte{}
	for name, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("emitter: nil document %q", name)
		}
		data, err := Render(doc, format, opts.OpenAPI3)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		files[name+"."+string(format)] = data
	}

	// Plan in deterministic order
	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Planned: planned}, nil
}

// Render serializes one document. Output is stable for equal input since
// object keys are written in sorted order.
func Render(doc *swagger.Document, format Format, openAPI3 bool) ([]byte, error) {
	var v any = doc
	if openAPI3 {
		converted, err := toV3(doc)
		if err != nil {
			return nil, err
		}
		v = converted
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	// YAML goes through the JSON form so both formats agree on field names.
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("reparse json: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

func toV3(doc *swagger.Document) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal swagger: %w", err)
	}
	var v2 openapi2.T
	if err := json.Unmarshal(raw, &v2); err != nil {
		return nil, fmt.Errorf("decode swagger: %w", err)
	}
	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, fmt.Errorf("convert to openapi 3: %w", err)
	}
	return v3, nil
}

// PrintPlan writes a human readable summary of res to w.
func PrintPlan(w io.Writer, outDir string, res *Result) {
	fmt.Fprintf(w, "Planned writes to %s (%d files):\n", outDir, len(res.Planned))
	for _, pf := range res.Planned {
		fmt.Fprintf(w, "  %s (%d bytes)\n", pf.RelPath, pf.Size)
	}
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("emitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}
