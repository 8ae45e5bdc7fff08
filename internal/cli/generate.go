package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/vmsgen/internal/emitter"
	"github.com/mark3labs/vmsgen/internal/logger"
	"github.com/mark3labs/vmsgen/internal/metamodel"
	"github.com/mark3labs/vmsgen/internal/swagger"
)

// combinedDocumentName is the file stem of the single document written when
// output is not split by package.
const combinedDocumentName = "api"

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	URL                string
	Input              string
	Insecure           bool
	TagSeparator       string
	UniqueOperationIDs bool
	Out                string
	Format             string
	OpenAPI3           bool
	SplitByPackage     bool
	ConfigPath         string
	DryRun             bool
	Force              bool
	Verbose            bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		TagSeparator: swagger.DefaultTagSeparator,
		Out:          "openapi",
		Format:       string(emitter.FormatJSON),
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Swagger documents from a vAPI metamodel",
		Long: "Generate Swagger 2.0 (or OpenAPI 3) documents from the vAPI metamodel of an endpoint. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  vmsgen generate --url https://vcenter.example.com/rest --input metamodel.json
  vmsgen generate --url https://vcenter.example.com/rest -k --split-by-package --format yaml
  vmsgen --config vmsgen.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("url", "", "Base URL of the target endpoint, e.g. https://vcenter.example.com/rest")
	flags.String("input", "", "Path or URL of the metamodel document; defaults to --url")
	flags.BoolP("insecure", "k", false, "Skip TLS certificate verification when fetching the metamodel")
	flags.StringP("tag-separator", "s", swagger.DefaultTagSeparator, "Separator joining service name segments into tags")
	flags.Bool("unique-operation-ids", false, "Derive operation ids from paths and methods")
	flags.StringP("out", "o", "", "Output directory (defaults to ./openapi)")
	flags.String("format", "", "Output format (json|yaml); defaults to json")
	flags.Bool("oas3", false, "Convert documents to OpenAPI 3 before writing")
	flags.Bool("split-by-package", false, "Write one document per package")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"url":           &cfg.URL,
		"input":         &cfg.Input,
		"tag-separator": &cfg.TagSeparator,
		"out":           &cfg.Out,
		"format":        &cfg.Format,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	bools := map[string]*bool{
		"insecure":             &cfg.Insecure,
		"unique-operation-ids": &cfg.UniqueOperationIDs,
		"oas3":                 &cfg.OpenAPI3,
		"split-by-package":     &cfg.SplitByPackage,
		"dry-run":              &cfg.DryRun,
		"force":                &cfg.Force,
		"verbose":              &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	return nil
}

// normalize trims everything but the tag separator, where spaces and the
// empty string are meaningful.
func (c *GenerateConfig) normalize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Input == "" {
		c.Input = c.URL
	}
}

func (c *GenerateConfig) validate() error {
	if c.URL == "" {
		return newUsageError("generate: --url is required (set via flag or config file)")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return newUsageError(fmt.Sprintf("generate: --url %q must be an http or https URL", c.URL))
	}
	if c.Out == "" {
		return newUsageError("generate: --out must not be empty")
	}
	if _, err := emitter.ParseFormat(c.Format); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := logger.Init(cfg.Verbose)

	// 1) Load the metamodel (file or http/https URL)
	mm, err := metamodel.Load(ctx, cfg.Input, metamodel.WithInsecureSkipVerify(cfg.Insecure))
	if err != nil {
		var le *metamodel.LoadError
		if errors.As(err, &le) {
			msg := fmt.Sprintf("metamodel: %s", le.Message)
			if le.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
			}
			if le.Code == metamodel.NetworkError && !cfg.Insecure {
				msg += "\nHint: use --insecure for endpoints with self-signed certificates."
			}
			return newUsageError(msg)
		}
		return err
	}
	log.Debug().Str("input", cfg.Input).Int("packages", len(mm.Packages)).Msg("loaded metamodel")

	// 2) Transform
	gen := swagger.New(swagger.Config{
		BaseURL:            cfg.URL,
		TagSeparator:       cfg.TagSeparator,
		UniqueOperationIDs: cfg.UniqueOperationIDs,
	}, swagger.WithLogger(log))

	docs := map[string]*swagger.Document{}
	if cfg.SplitByPackage {
		docs, err = gen.GenerateByPackage(mm)
	} else {
		var doc *swagger.Document
		doc, err = gen.Generate(mm)
		docs[combinedDocumentName] = doc
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	// 3) Emit
	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}
	format, err := emitter.ParseFormat(cfg.Format)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	res, err := emitter.Emit(ctx, docs, emitter.Options{
		OutDir:   cfg.Out,
		Format:   format,
		OpenAPI3: cfg.OpenAPI3,
		Force:    cfg.Force,
		DryRun:   cfg.DryRun,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}
	if cfg.DryRun {
		emitter.PrintPlan(os.Stdout, absOut, res)
		return nil
	}
	log.Info().Str("out", absOut).Int("files", len(res.Planned)).Msg("documents written")
	return nil
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var ferr error
		switch normalizeKey(key) {
		case "url":
			cfg.URL, ferr = valueAsString(value)
		case "input":
			cfg.Input, ferr = valueAsString(value)
		case "insecure":
			cfg.Insecure, ferr = valueAsBool(value)
		case "tagseparator":
			cfg.TagSeparator, ferr = valueAsRawString(value)
		case "uniqueoperationids":
			cfg.UniqueOperationIDs, ferr = valueAsBool(value)
		case "out":
			cfg.Out, ferr = valueAsString(value)
		case "format":
			cfg.Format, ferr = valueAsString(value)
		case "oas3", "openapi3":
			cfg.OpenAPI3, ferr = valueAsBool(value)
		case "splitbypackage":
			cfg.SplitByPackage, ferr = valueAsBool(value)
		case "dryrun":
			cfg.DryRun, ferr = valueAsBool(value)
		case "force":
			cfg.Force, ferr = valueAsBool(value)
		case "verbose":
			cfg.Verbose, ferr = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if ferr != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, ferr))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	s, err := valueAsRawString(v)
	return strings.TrimSpace(s), err
}

func valueAsRawString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
