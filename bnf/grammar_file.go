package bnf

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/pgen/grammar"
)

// GrammarRule is one parsed parser-grammar-file production before symbol
// resolution: a left-hand non-terminal name and its alternatives, each a
// (possibly empty) space-separated list of right-hand names.
type GrammarRule struct {
	Left  string
	Alts  [][]string
}

// LoadGrammarFile parses a parser grammar file per spec.md 6:
// `NAME "::=" alt ("|" alt)* ";"`. tokenNames is the set of names already
// declared by the companion scanner grammar file; any right-hand name not
// in tokenNames and not itself declared on some rule's left is reported as
// an undeclared symbol, and every declared non-terminal must appear on a
// rule's left (grammar.Grammar.Validate enforces this after interning).
func LoadGrammarFile(r io.Reader, tokenNames []string, start string) (*grammar.Grammar, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bnf: read grammar file: %w", err)
	}
	src := stripComments(string(raw))

	var rules []GrammarRule
	for _, stmt := range splitStatements(src) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		rule, err := parseGrammarStatement(stmt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("bnf: grammar file declares no rules")
	}

	isToken := make(map[string]bool, len(tokenNames))
	for _, n := range tokenNames {
		isToken[n] = true
	}
	isNonTerminal := make(map[string]bool, len(rules))
	for _, r := range rules {
		isNonTerminal[r.Left] = true
	}

	g := grammar.New()
	for _, n := range tokenNames {
		g.AddToken(n)
	}
	for _, r := range rules {
		g.AddNonTerminal(r.Left)
	}

	for _, r := range rules {
		left, _ := g.NonTerminalID(r.Left)
		for _, alt := range r.Alts {
			var right []grammar.Sym
			for _, name := range alt {
				switch {
				case isNonTerminal[name]:
					id, _ := g.NonTerminalID(name)
					right = append(right, grammar.NT(id))
				case isToken[name]:
					id, _ := g.TokenID(name)
					right = append(right, grammar.Tok(id))
				default:
					return nil, fmt.Errorf("bnf: rule %q references undeclared symbol %q", r.Left, name)
				}
			}
			g.AddRule(left, right)
		}
	}

	startID, ok := g.NonTerminalID(start)
	if !ok {
		return nil, fmt.Errorf("bnf: declared start symbol %q is not a non-terminal in this grammar", start)
	}
	g.SetStart(startID)

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func parseGrammarStatement(stmt string) (GrammarRule, error) {
	stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ";")

	left, rest, ok := cutFirstField(stmt)
	if !ok {
		return GrammarRule{}, fmt.Errorf("bnf: malformed grammar rule %q: missing left-hand name", stmt)
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "::=")

	var alts [][]string
	for _, altSrc := range strings.Split(rest, "|") {
		altSrc = strings.TrimSpace(altSrc)
		if altSrc == "" {
			alts = append(alts, nil) // empty alternative, per spec.md's "possibly empty" alt
			continue
		}
		alts = append(alts, strings.Fields(altSrc))
	}
	if len(alts) == 0 {
		return GrammarRule{}, fmt.Errorf("bnf: rule %q declares no alternatives", left)
	}

	return GrammarRule{Left: left, Alts: alts}, nil
}
