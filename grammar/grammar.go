// Package grammar holds the context-free grammar model: token and
// non-terminal names interned to dense integer ids, and the list of
// production rules built from them. It is the ground truth that
// first/follow, LL(1), and SLR(1) construction all consult.
package grammar

import (
	"fmt"
	"sort"
)

// Kind distinguishes the two symbol classes a production's right-hand side
// is made of.
type Kind int

const (
	// TokenSym marks a right-hand-side symbol as a terminal (token) id.
	TokenSym Kind = iota
	// NonTerminalSym marks a right-hand-side symbol as a non-terminal id.
	NonTerminalSym
)

func (k Kind) String() string {
	if k == TokenSym {
		return "TOKEN"
	}
	return "NONTERMINAL"
}

// Sym is one symbol on a production's right-hand side.
type Sym struct {
	Kind Kind
	ID   int
}

// Tok builds a token-kind Sym.
func Tok(id int) Sym { return Sym{Kind: TokenSym, ID: id} }

// NT builds a non-terminal-kind Sym.
func NT(id int) Sym { return Sym{Kind: NonTerminalSym, ID: id} }

// Rule is a single production: left -> right.
type Rule struct {
	Left  int
	Right []Sym

	// Global is the rule's position in the grammar's full, insertion-order
	// rule list.
	Global int
	// Local is the rule's position among only the rules sharing its Left
	// non-terminal, in insertion order.
	Local int
}

// Grammar interns token and non-terminal names to dense ids (assigned in
// insertion order, starting at 0, per spec.md's DATA MODEL) and stores the
// resulting production rules.
type Grammar struct {
	tokenNames []string
	tokenIDs   map[string]int

	ntNames []string
	ntIDs   map[string]int

	rules        []Rule
	rulesByLeft  map[int][]int // nt id -> indices into rules, local order
	startSet     bool
	startSymbol  int
}

// New returns an empty grammar.
func New() *Grammar {
	return &Grammar{
		tokenIDs:    map[string]int{},
		ntIDs:       map[string]int{},
		rulesByLeft: map[int][]int{},
	}
}

// AddToken interns name as a token and returns its id. Calling it again
// with the same name returns the existing id.
func (g *Grammar) AddToken(name string) int {
	if id, ok := g.tokenIDs[name]; ok {
		return id
	}
	id := len(g.tokenNames)
	g.tokenNames = append(g.tokenNames, name)
	g.tokenIDs[name] = id
	return id
}

// AddNonTerminal interns name as a non-terminal and returns its id. Calling
// it again with the same name returns the existing id.
func (g *Grammar) AddNonTerminal(name string) int {
	if id, ok := g.ntIDs[name]; ok {
		return id
	}
	id := len(g.ntNames)
	g.ntNames = append(g.ntNames, name)
	g.ntIDs[name] = id
	return id
}

// TokenID returns the id interned for name, if any.
func (g *Grammar) TokenID(name string) (int, bool) {
	id, ok := g.tokenIDs[name]
	return id, ok
}

// NonTerminalID returns the id interned for name, if any.
func (g *Grammar) NonTerminalID(name string) (int, bool) {
	id, ok := g.ntIDs[name]
	return id, ok
}

// TokenName returns the name interned for id. Panics if id is out of range.
func (g *Grammar) TokenName(id int) string {
	if id < 0 || id >= len(g.tokenNames) {
		panic(fmt.Sprintf("grammar: token id %d out of range", id))
	}
	return g.tokenNames[id]
}

// NonTerminalName returns the name interned for id. Panics if id is out of
// range.
func (g *Grammar) NonTerminalName(id int) string {
	if id < 0 || id >= len(g.ntNames) {
		panic(fmt.Sprintf("grammar: non-terminal id %d out of range", id))
	}
	return g.ntNames[id]
}

// NumTokens returns the number of interned tokens. This value also serves
// as the END_MARKER token id, per spec.md's DATA MODEL.
func (g *Grammar) NumTokens() int { return len(g.tokenNames) }

// NumNonTerminals returns the number of interned non-terminals.
func (g *Grammar) NumNonTerminals() int { return len(g.ntNames) }

// EndMarker returns the synthetic end-of-input token id: always equal to
// NumTokens().
func (g *Grammar) EndMarker() int { return g.NumTokens() }

// SetStart declares nt as the grammar's start symbol.
func (g *Grammar) SetStart(nt int) {
	g.startSymbol = nt
	g.startSet = true
}

// StartSymbol returns the declared start non-terminal id and whether one
// has been set.
func (g *Grammar) StartSymbol() (int, bool) {
	return g.startSymbol, g.startSet
}

// FromRuleExport rebuilds a bare Grammar from a decoded table blob's rule
// list, given the token/non-terminal counts and a start symbol: it interns
// placeholder names ("t0", "t1", ... and "nt0", "nt1", ...) since the blob
// formats for the LL(1)/SLR(1) tables carry only ids, not names. Callers
// with access to the original grammar's name maps (e.g. the combined blob,
// which does carry names) should prefer reusing that Grammar directly
// instead of calling this.
func FromRuleExport(numTokens, numNonTerminals int, rules []Rule, start int) *Grammar {
	g := New()
	for i := 0; i < numTokens; i++ {
		g.AddToken(fmt.Sprintf("t%d", i))
	}
	for i := 0; i < numNonTerminals; i++ {
		g.AddNonTerminal(fmt.Sprintf("nt%d", i))
	}
	g.SetStart(start)
	for _, r := range rules {
		g.AddRule(r.Left, r.Right)
	}
	return g
}

// AddRule appends a new production left -> right and returns its global
// rule index.
func (g *Grammar) AddRule(left int, right []Sym) int {
	local := len(g.rulesByLeft[left])
	global := len(g.rules)
	r := Rule{Left: left, Right: right, Global: global, Local: local}
	g.rules = append(g.rules, r)
	g.rulesByLeft[left] = append(g.rulesByLeft[left], global)
	return global
}

// Rules returns every rule, in global (insertion) order.
func (g *Grammar) Rules() []Rule {
	return g.rules
}

// Rule returns the rule at global index i. Panics if i is out of range.
func (g *Grammar) Rule(i int) Rule {
	if i < 0 || i >= len(g.rules) {
		panic(fmt.Sprintf("grammar: rule index %d out of range", i))
	}
	return g.rules[i]
}

// RulesFor returns the rules whose left is nt, in local (per-left insertion)
// order.
func (g *Grammar) RulesFor(nt int) []Rule {
	idxs := g.rulesByLeft[nt]
	out := make([]Rule, len(idxs))
	for i, idx := range idxs {
		out[i] = g.rules[idx]
	}
	return out
}

// Validate checks that every rule references a declared token/non-terminal
// id, that a start symbol has been set, and that every interned
// non-terminal appears on the left of at least one rule (spec.md 6:
// "Non-terminals must be declared by appearing on the left of at least one
// rule"). Grounded on the teacher's Test_Grammar_Validate, which runs this
// same class of check before any FIRST/FOLLOW work begins.
func (g *Grammar) Validate() error {
	if !g.startSet {
		return fmt.Errorf("grammar: no start symbol set")
	}
	if g.startSymbol < 0 || g.startSymbol >= len(g.ntNames) {
		return fmt.Errorf("grammar: start symbol %d is not a declared non-terminal", g.startSymbol)
	}

	defined := make([]bool, len(g.ntNames))
	for _, r := range g.rules {
		if r.Left < 0 || r.Left >= len(g.ntNames) {
			return fmt.Errorf("grammar: rule %d has undeclared left non-terminal %d", r.Global, r.Left)
		}
		defined[r.Left] = true
		for _, s := range r.Right {
			switch s.Kind {
			case TokenSym:
				if s.ID < 0 || s.ID >= len(g.tokenNames) {
					return fmt.Errorf("grammar: rule %d references undeclared token id %d", r.Global, s.ID)
				}
			case NonTerminalSym:
				if s.ID < 0 || s.ID >= len(g.ntNames) {
					return fmt.Errorf("grammar: rule %d references undeclared non-terminal id %d", r.Global, s.ID)
				}
			default:
				return fmt.Errorf("grammar: rule %d has symbol of unknown kind %v", r.Global, s.Kind)
			}
		}
	}

	var undeclared []string
	for id, name := range g.ntNames {
		if !defined[id] {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return fmt.Errorf("grammar: non-terminal(s) never appear on a rule's left side: %v", undeclared)
	}

	return nil
}
