package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/pgen/lex"
)

// runTestREPL reads lines interactively (GNU-readline-backed, mirroring
// the teacher's InteractiveCommandReader) and runs each one through tc's
// scanner and table, printing "accepted" or the error list.
func runTestREPL(tc *toolchain) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "pgen> "})
	if err != nil {
		return fmt.Errorf("pgen: start test REPL: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		in := lex.NewReader("<repl>", strings.NewReader(line))

		var errs []string
		var accepted bool
		switch {
		case tc.slr1 != nil:
			res := tc.slr1.Parse(tc.scanner, in, true, nil)
			accepted = res.Tree != nil
			for _, e := range res.Errors {
				errs = append(errs, e.Error())
			}
		default:
			res := tc.ll1.Parse(tc.scanner, in, true, nil)
			accepted = res.Tree != nil
			for _, e := range res.Errors {
				errs = append(errs, e.Error())
			}
		}

		if accepted {
			fmt.Println("accepted")
		} else {
			fmt.Println("rejected:")
			for _, e := range errs {
				fmt.Printf("  %s\n", e)
			}
		}
	}
}
