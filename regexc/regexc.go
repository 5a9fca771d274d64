// Package regexc compiles a pattern string into a minimized static DFA,
// following the small fixed grammar spec.md lays out for this core (rather
// than reaching for the standard library's regexp, which operates over
// Unicode strings and exposes no automaton to freeze). It picks up exactly
// where the teacher's own lex/regex.go stopped — that file's
// createSingleSymbolFA/createJuxtapositionFA/createKleeneStarFA/
// createAlternationFA family was left as a acknowledged TODO stub never
// wired to a working parser; this package is that parser, built against
// this module's own automaton package instead of the teacher's
// never-finished NFA.Join plumbing.
package regexc

import (
	"fmt"

	"github.com/dekarrin/pgen/automaton"
)

// value is the per-state payload type used while building regex NFAs; a
// regex DFA carries no per-state metadata beyond accept/reject, so this is
// an empty struct throughout.
type value = struct{}

// Compile parses pattern per spec.md 4.2's grammar and returns the
// minimized static DFA recognizing it. finalMerge is always true here:
// a regex-compiled DFA recognizes a single pattern, so there is only one
// notion of "accepting" and no reason to keep multiple accept states
// distinct (that distinction is scanner.go's concern, where a merged state
// spanning tokens must keep its lowest id, i.e. the earliest-declared rule).
func Compile(pattern string) (automaton.StaticDFA, error) {
	nfa, err := CompileNFA(pattern)
	if err != nil {
		return automaton.StaticDFA{}, err
	}
	free := nfa.RemoveEpsilons()
	dfa, _ := free.Determinize()
	min, _ := automaton.Minimize(dfa, true)
	static, _ := automaton.Freeze(min, func(string) int { return 0 })
	return static, nil
}

// CompileNFA parses pattern and returns the (not yet determinized) NFA, for
// callers that need to merge several patterns' NFAs before determinizing.
// Within this module only Compile calls it; the scanner automaton builder
// uses Compile and merges the resulting DFAs.
func CompileNFA(pattern string) (automaton.NFA[value], error) {
	p := &parser{pattern: []byte(pattern)}
	nfa, err := p.parseRegex()
	if err != nil {
		return automaton.NFA[value]{}, err
	}
	if !p.atEnd() {
		return automaton.NFA[value]{}, fmt.Errorf("regexc: unexpected %q at position %d", p.peek(), p.pos)
	}
	return nfa, nil
}

type parser struct {
	pattern []byte
	pos     int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.pattern) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.pattern[p.pos]
}

func (p *parser) advance() byte {
	b := p.peek()
	p.pos++
	return b
}

func (p *parser) expect(b byte) error {
	if p.atEnd() || p.peek() != b {
		return fmt.Errorf("regexc: expected %q at position %d", b, p.pos)
	}
	p.pos++
	return nil
}

// parseRegex implements: Regex -> Expression RegexOr | ε
func (p *parser) parseRegex() (automaton.NFA[value], error) {
	return p.parseRegexFrom(epsilonNFA())
}

// parseRegexFrom threads a running concatenation accumulator through
// Regex -> Expression RegexOr and RegexOr -> '|' Regex | Regex, the way the
// original compiler's getRegexAutomata/getRegexOrAutomata pair threads a
// DynamicAutomata accumulator rather than recursing into a fresh top-level
// parse for each continuation. That threading matters: without it, a
// trailing "| Regex" would swallow everything parsed so far on the left,
// making alternation bind tighter than concatenation (the original's grammar
// has it the other way around — concatenation binds tighter, so "ab|c"
// means {ab, c}, not {ab, ac}).
func (p *parser) parseRegexFrom(accum automaton.NFA[value]) (automaton.NFA[value], error) {
	if p.atEnd() || p.peek() == ')' {
		return accum, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return automaton.NFA[value]{}, err
	}
	accum = automaton.Concat(accum, expr)

	if p.peek() == '|' {
		p.advance()
		right, err := p.parseRegexFrom(epsilonNFA())
		if err != nil {
			return automaton.NFA[value]{}, err
		}
		return automaton.Union(accum, right), nil
	}
	return p.parseRegexFrom(accum)
}

// parseExpression implements:
//
//	Expression -> SYMBOL Factor | '(' Regex ')' Factor | '[' SymbolSet ']' Factor
func (p *parser) parseExpression() (automaton.NFA[value], error) {
	var node automaton.NFA[value]

	switch {
	case p.peek() == '(':
		p.advance()
		inner, err := p.parseRegex()
		if err != nil {
			return automaton.NFA[value]{}, err
		}
		if err := p.expect(')'); err != nil {
			return automaton.NFA[value]{}, err
		}
		node = inner
	case p.peek() == '[':
		p.advance()
		set, err := p.parseSymbolSet()
		if err != nil {
			return automaton.NFA[value]{}, err
		}
		if err := p.expect(']'); err != nil {
			return automaton.NFA[value]{}, err
		}
		node = setNFA(set)
	default:
		set, err := p.parseSymbol()
		if err != nil {
			return automaton.NFA[value]{}, err
		}
		node = setNFA(set)
	}

	factor := p.parseFactor()
	return applyFactor(node, factor), nil
}

// parseFactor implements: Factor -> '*' | '+' | '?' | ε
func (p *parser) parseFactor() byte {
	switch p.peek() {
	case '*', '+', '?':
		return p.advance()
	default:
		return 0
	}
}

func applyFactor(node automaton.NFA[value], factor byte) automaton.NFA[value] {
	switch factor {
	case '*':
		return automaton.Closure(node)
	case '+':
		return automaton.Concat(node, automaton.Closure(node.Copy()))
	case '?':
		return automaton.Union(node, epsilonNFA())
	default:
		return node
	}
}

// parseSymbolSet implements: SymbolSet -> SymbolList | '^' SymbolList
func (p *parser) parseSymbolSet() (map[byte]bool, error) {
	negate := false
	if p.peek() == '^' {
		p.advance()
		negate = true
	}
	set, err := p.parseSymbolList()
	if err != nil {
		return nil, err
	}
	if negate {
		return complement(set), nil
	}
	return set, nil
}

// parseSymbolList implements: SymbolList -> SYMBOL SymbolList | ε
func (p *parser) parseSymbolList() (map[byte]bool, error) {
	out := map[byte]bool{}
	for !p.atEnd() && p.peek() != ']' {
		set, err := p.parseSymbol()
		if err != nil {
			return nil, err
		}
		for b := range set {
			out[b] = true
		}
	}
	return out, nil
}

// parseSymbol implements the SYMBOL token: a single non-backslash byte, or
// '\' followed by any byte, resolved per spec.md 4.2's escape table.
func (p *parser) parseSymbol() (map[byte]bool, error) {
	if p.atEnd() {
		return nil, fmt.Errorf("regexc: unexpected end of pattern, expected a symbol")
	}
	b := p.advance()
	if b != '\\' {
		return resolveLiteral(b), nil
	}
	if p.atEnd() {
		return nil, fmt.Errorf("regexc: dangling escape at end of pattern")
	}
	esc := p.advance()
	return resolveEscape(esc), nil
}

func resolveLiteral(b byte) map[byte]bool {
	if b == '.' {
		return wildcard()
	}
	return map[byte]bool{b: true}
}

func wildcard() map[byte]bool {
	set := map[byte]bool{}
	for b := 1; b < 128; b++ {
		set[byte(b)] = true
	}
	return set
}

func complement(set map[byte]bool) map[byte]bool {
	out := map[byte]bool{}
	for b := 1; b < 128; b++ {
		if !set[byte(b)] {
			out[byte(b)] = true
		}
	}
	return out
}

func rangeSet(lo, hi byte) map[byte]bool {
	out := map[byte]bool{}
	for b := lo; b <= hi; b++ {
		out[b] = true
	}
	return out
}

func union(sets ...map[byte]bool) map[byte]bool {
	out := map[byte]bool{}
	for _, s := range sets {
		for b := range s {
			out[b] = true
		}
	}
	return out
}

func resolveEscape(c byte) map[byte]bool {
	switch c {
	case 't':
		return map[byte]bool{'\t': true}
	case 'n':
		return map[byte]bool{'\n': true}
	case 'f':
		return map[byte]bool{'\f': true}
	case 'r':
		return map[byte]bool{'\r': true}
	case 'd':
		return rangeSet('0', '9')
	case 'D':
		return complement(rangeSet('0', '9'))
	case 'w':
		return union(rangeSet('a', 'z'), rangeSet('A', 'Z'), map[byte]bool{'_': true})
	case 'W':
		return complement(union(rangeSet('a', 'z'), rangeSet('A', 'Z'), map[byte]bool{'_': true}))
	case 's':
		return map[byte]bool{' ': true, '\t': true, '\n': true, '\f': true, '\r': true}
	case 'S':
		return complement(map[byte]bool{' ': true, '\t': true, '\n': true, '\f': true, '\r': true})
	case 'h':
		return union(rangeSet('0', '9'), rangeSet('a', 'f'))
	case 'H':
		return union(rangeSet('0', '9'), rangeSet('A', 'F'))
	default:
		return map[byte]bool{c: true}
	}
}

// epsilonNFA returns the one-state NFA for the empty string: a start state
// that is itself accepting, with no transitions.
func epsilonNFA() automaton.NFA[value] {
	nfa := automaton.NewNFA[value]()
	nfa.AddState("s", true)
	nfa.Start = "s"
	return *nfa
}

// setNFA returns the two-state NFA accepting exactly one byte from set.
func setNFA(set map[byte]bool) automaton.NFA[value] {
	nfa := automaton.NewNFA[value]()
	nfa.AddState("a", false)
	nfa.AddState("b", true)
	nfa.Start = "a"
	for b := range set {
		nfa.AddTransition("a", b, "b")
	}
	return *nfa
}
