package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// manifest is an alternative, YAML-described grammar bundle: instead of
// repeating --scanner/--grammar/--start/--out flags on every invocation, a
// manifest file names them all in one place, loaded with
// github.com/goccy/go-yaml the way alterx reads its own permutation
// manifests.
type manifest struct {
	Scanner  string `yaml:"scanner"`
	Grammar  string `yaml:"grammar"`
	Start    string `yaml:"start"`
	Out      string `yaml:"out"`
	Mode     string `yaml:"mode"`
	Format   string `yaml:"format"`
	Variable string `yaml:"variable"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("pgen: read manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("pgen: parse manifest %s: %w", path, err)
	}
	return m, nil
}

// applyManifest overlays non-empty manifest fields onto cfg, the same
// override precedence applyFlagOverrides uses for CLI flags (a non-empty
// manifest field replaces whatever the config file set; flags still win
// over both, applied after this by the caller).
func applyManifest(cfg *toolConfig, m manifest) {
	if m.Scanner != "" {
		cfg.ScannerFile = m.Scanner
	}
	if m.Grammar != "" {
		cfg.GrammarFile = m.Grammar
	}
	if m.Start != "" {
		cfg.Start = m.Start
	}
	if m.Out != "" {
		cfg.OutputDir = m.Out
	}
	if m.Mode != "" {
		cfg.Mode = m.Mode
	}
	if m.Format != "" {
		cfg.Format = m.Format
	}
	if m.Variable != "" {
		cfg.Variable = m.Variable
	}
}
