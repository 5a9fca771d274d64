/*
Pgen compiles a scanner grammar file and a parser grammar file into a
binary table artifact, and can interactively test the resulting
scanner/parser pair against sample input.

Usage:

	pgen build [flags]
	pgen test [flags]

The flags are:

	-v, --version
		Give the current version of pgen and then exit.

	--config FILE
		Load tool defaults from the given TOML config file. Defaults to
		"pgen.toml" in the current working directory; missing is not an
		error.

	-s, --scanner FILE
		Scanner grammar file to compile. Overrides the config file.

	-g, --grammar FILE
		Parser grammar file to compile. Overrides the config file.

	--start NAME
		Declared start non-terminal. Overrides the config file.

	-o, --out DIR
		Output directory for the "build" subcommand's artifact. Overrides
		the config file.

	-m, --mode ll1|slr1
		Table construction mode. Overrides the config file.

	-f, --format bin|c
		Artifact output format for the "build" subcommand. "bin" writes
		the raw combined blob; "c" instead writes a C header
		embedding it as a byte array, for consumers that link the table
		in rather than reading it from disk. Overrides the config file.

	--var NAME
		Identifier used for the byte array in "c" format output.
		Overrides the config file.

"build" compiles the configured scanner/grammar files and writes a
uuid-tagged binary artifact to the output directory. "test" does the same
compilation but then opens an interactive prompt reading lines of sample
input and reporting accept/reject for each.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const version = "0.1.0"

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of pgen and then exit.")
	flagConfig  = pflag.String("config", "pgen.toml", "Load tool defaults from the given TOML config file.")
	flagManifest = pflag.String("manifest", "", "Load a YAML grammar-bundle manifest naming scanner/grammar/start/out.")
	flagScanner = pflag.StringP("scanner", "s", "", "Scanner grammar file to compile.")
	flagGrammar = pflag.StringP("grammar", "g", "", "Parser grammar file to compile.")
	flagStart   = pflag.String("start", "", "Declared start non-terminal.")
	flagOut     = pflag.StringP("out", "o", "", "Output directory for the build artifact.")
	flagMode    = pflag.StringP("mode", "m", "", "Table construction mode: ll1 or slr1.")
	flagFormat  = pflag.StringP("format", "f", "", "Artifact output format: bin or c.")
	flagVar     = pflag.String("var", "", "Identifier for the byte array in c format output.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println(version)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "pgen: expected a subcommand: build, test")
		os.Exit(2)
	}

	cfg, err := loadToolConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	if *flagManifest != "" {
		m, err := loadManifest(*flagManifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		applyManifest(&cfg, m)
	}

	applyFlagOverrides(&cfg)

	switch args[0] {
	case "build":
		runBuild(cfg)
	case "test":
		runTest(cfg)
	default:
		fmt.Fprintf(os.Stderr, "pgen: unknown subcommand %q\n", args[0])
		os.Exit(2)
	}
}

func applyFlagOverrides(cfg *toolConfig) {
	if pflag.Lookup("scanner").Changed {
		cfg.ScannerFile = *flagScanner
	}
	if pflag.Lookup("grammar").Changed {
		cfg.GrammarFile = *flagGrammar
	}
	if pflag.Lookup("start").Changed {
		cfg.Start = *flagStart
	}
	if pflag.Lookup("out").Changed {
		cfg.OutputDir = *flagOut
	}
	if pflag.Lookup("mode").Changed {
		cfg.Mode = *flagMode
	}
	if pflag.Lookup("format").Changed {
		cfg.Format = *flagFormat
	}
	if pflag.Lookup("var").Changed {
		cfg.Variable = *flagVar
	}
}

func runBuild(cfg toolConfig) {
	tc, err := buildToolchain(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	path, err := writeArtifact(cfg, tc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", path)
}

func runTest(cfg toolConfig) {
	tc, err := buildToolchain(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	if err := runTestREPL(tc); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
