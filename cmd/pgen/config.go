package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// toolConfig is the on-disk tool configuration this CLI loads from
// pgen.toml (or the path given by --config), the way the teacher's tqw
// package loads its own TOML-described world manifests via
// toml.Unmarshal.
type toolConfig struct {
	ScannerFile string `toml:"scanner_file"`
	GrammarFile string `toml:"grammar_file"`
	Start       string `toml:"start"`
	OutputDir   string `toml:"output_dir"`
	Mode        string `toml:"mode"`   // "ll1" or "slr1"
	Format      string `toml:"format"` // "bin" or "c"
	Variable    string `toml:"variable"`
}

// defaultToolConfig is used when no config file is present; every field
// can still be overridden by an explicit flag.
func defaultToolConfig() toolConfig {
	return toolConfig{
		ScannerFile: "scanner.bnf",
		GrammarFile: "grammar.bnf",
		OutputDir:   ".",
		Mode:        "ll1",
		Format:      "bin",
		Variable:    "pgen_table",
	}
}

// loadToolConfig reads and decodes path, falling back to defaultToolConfig
// unmodified if path doesn't exist.
func loadToolConfig(path string) (toolConfig, error) {
	cfg := defaultToolConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("pgen: read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pgen: parse config %s: %w", path, err)
	}
	return cfg, nil
}
