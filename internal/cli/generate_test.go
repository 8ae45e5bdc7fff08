package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureGenerateConfig(t *testing.T, args ...string) (*GenerateConfig, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs(args)
	err := root.Execute()
	return captured, err
}

func TestGenerateConfigFromFlags(t *testing.T) {
	captured, err := captureGenerateConfig(t,
		"--verbose",
		"generate",
		"--url", "https://vc.example.com/rest/",
		"--input", "metamodel.json",
		"-k",
		"-s", "_",
		"--unique-operation-ids",
		"-o", "./build",
		"--format", "YAML",
		"--oas3",
		"--split-by-package",
		"--dry-run",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured == nil {
		t.Fatalf("expected config to be captured")
	}

	if captured.URL != "https://vc.example.com/rest" {
		t.Errorf("url mismatch: got %q", captured.URL)
	}
	if captured.Input != "metamodel.json" {
		t.Errorf("input mismatch: got %q", captured.Input)
	}
	if !captured.Insecure {
		t.Errorf("expected insecure true")
	}
	if captured.TagSeparator != "_" {
		t.Errorf("tag separator mismatch: got %q", captured.TagSeparator)
	}
	if !captured.UniqueOperationIDs {
		t.Errorf("expected unique operation ids true")
	}
	if captured.Out != "./build" {
		t.Errorf("out mismatch: got %q", captured.Out)
	}
	if captured.Format != "yaml" {
		t.Errorf("format mismatch: got %q", captured.Format)
	}
	if !captured.OpenAPI3 || !captured.SplitByPackage {
		t.Errorf("expected oas3 and split-by-package true: %+v", captured)
	}
	if !captured.DryRun {
		t.Errorf("expected dry-run true")
	}
	if !captured.Force {
		t.Errorf("expected force true")
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	captured, err := captureGenerateConfig(t, "generate", "--url", "https://vc.example.com/rest")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured.Input != "https://vc.example.com/rest" {
		t.Errorf("input should default to url, got %q", captured.Input)
	}
	if captured.TagSeparator != "/" {
		t.Errorf("tag separator default: got %q", captured.TagSeparator)
	}
	if captured.Out != "openapi" || captured.Format != "json" {
		t.Errorf("unexpected defaults: %+v", captured)
	}
	if captured.Insecure || captured.UniqueOperationIDs || captured.OpenAPI3 || captured.SplitByPackage {
		t.Errorf("boolean options should default to false: %+v", captured)
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`url: https://from-config.example.com/rest
input: config-metamodel.json
tag_separator: ""
unique-operation-ids: "yes"
out: from-config
format: yaml
splitByPackage: true
dryRun: true
force: false
verbose: true
`) + "\n"

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	captured, err := captureGenerateConfig(t,
		"--config", configPath,
		"generate",
		"--input", "flag-metamodel.json",
		"--dry-run=false",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured == nil {
		t.Fatalf("expected config to be captured")
	}

	if captured.URL != "https://from-config.example.com/rest" {
		t.Errorf("url: got %q", captured.URL)
	}
	if captured.Input != "flag-metamodel.json" {
		t.Errorf("input: want %q got %q", "flag-metamodel.json", captured.Input)
	}
	if captured.TagSeparator != "" {
		t.Errorf("tag separator: want empty got %q", captured.TagSeparator)
	}
	if !captured.UniqueOperationIDs {
		t.Errorf("expected unique operation ids from config file")
	}
	if captured.Out != "from-config" {
		t.Errorf("out: want from-config got %q", captured.Out)
	}
	if captured.Format != "yaml" || !captured.SplitByPackage {
		t.Errorf("format/split from config lost: %+v", captured)
	}
	if captured.DryRun {
		t.Errorf("expected dry-run false after flag override")
	}
	if !captured.Force {
		t.Errorf("expected force true after flag override")
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true from config file")
	}
	if captured.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", captured.ConfigPath)
	}
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := captureGenerateConfig(t,
		"--config", configPath,
		"generate",
		"--url", "https://vc.example.com/rest",
	)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing url", args: []string{"generate"}, want: "--url is required"},
		{name: "url without scheme", args: []string{"generate", "--url", "vc.example.com"}, want: "http or https"},
		{name: "bad format", args: []string{"generate", "--url", "https://vc", "--format", "xml"}, want: "unsupported format"},
		{name: "empty out", args: []string{"generate", "--url", "https://vc", "--out", " "}, want: "--out"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			captured, err := captureGenerateConfig(t, tc.args...)
			if err == nil {
				t.Fatalf("expected error, runner got %+v", captured)
			}
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
