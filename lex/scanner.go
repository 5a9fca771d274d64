// Package lex builds the scanner automaton (a static DFA tagged with token
// ids and an ignored-token set) from a list of named regex rules, and
// drives it over an Input with longest-match-wins semantics, per spec.md
// 4.3.
package lex

import (
	"fmt"
	"sort"

	"github.com/dekarrin/pgen/automaton"
	"github.com/dekarrin/pgen/perrors"
	"github.com/dekarrin/pgen/regexc"
)

// Rule is one named lexical rule: a token name, its regex pattern, and
// whether matches of it are discarded rather than returned.
type Rule struct {
	Name    string
	Pattern string
	Ignore  bool
}

// Scanner is the frozen, immutable artifact a driver runs against. Several
// drivers may share one Scanner concurrently provided each owns its own
// Input (spec.md 5).
type Scanner struct {
	dfa     automaton.StaticDFA
	ignored map[int]bool
	// names is used only for constructing diagnostic messages; it is not
	// part of the scanner's runtime behavior.
	names []string
}

// Location is the (input name, line, column) of a token's first character.
type Location struct {
	Name string
	Line int
	Col  int
}

// Token is a single scanned lexeme: its declared token id, the matched
// text, and the location of its first byte.
type Token struct {
	ID     int
	Lexeme string
	Loc    Location
}

// Build constructs a Scanner from rules in declaration order. Per spec.md
// 4.3: each rule's pattern is compiled to a DFA and wrapped as an NFA, its accepting states
// tagged with the rule's token id (== its index in rules); all rule NFAs
// are merged under one fresh start state via epsilon edges; the result is
// epsilon-eliminated, determinized (preserving, per merged state, which
// original tagged states contributed), and minimized with finalMerge=false
// so that distinct rules' accept states never collapse into each other.
// When a merged determinized state spans multiple original accepting
// states, its token id is the minimum of their ids (earliest declaration
// wins).
func Build(rules []Rule) (*Scanner, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("lex: scanner needs at least one rule")
	}

	combined := automaton.NewNFA[struct{}]()
	combined.AddState("start", false)
	combined.Start = "start"

	stateToken := map[string]int{}
	names := make([]string, len(rules))

	for i, rule := range rules {
		ruleDFA, err := regexc.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lex: rule %q: %w", rule.Name, err)
		}

		prefix := fmt.Sprintf("r%d:", i)
		ruleNFA := dfaToNFA(ruleDFA, prefix)

		for _, name := range ruleNFA.States() {
			combined.AddState(name, ruleNFA.IsAccepting(name))
			if ruleNFA.IsAccepting(name) {
				stateToken[name] = i
			}
		}
		for _, name := range ruleNFA.States() {
			for sym, dests := range ruleNFA.Transitions(name) {
				for _, d := range dests {
					combined.AddTransition(name, sym, d)
				}
			}
		}
		combined.AddEpsilon("start", ruleNFA.Start)
		names[i] = rule.Name
	}

	free := combined.RemoveEpsilons()
	detDFA, _ := free.Determinize()

	minDFA, _ := automaton.Minimize(detDFA, false)

	static, _ := automaton.Freeze(minDFA, func(detName string) int {
		nfaNames := detDFA.GetValue(detName)
		best := -1
		for _, n := range nfaNames {
			if tid, ok := stateToken[n]; ok {
				if best == -1 || tid < best {
					best = tid
				}
			}
		}
		return best
	})

	ignored := map[int]bool{}
	for i, rule := range rules {
		if rule.Ignore {
			ignored[i] = true
		}
	}

	return &Scanner{dfa: static, ignored: ignored, names: names}, nil
}

// dfaToNFA wraps a compiled regex DFA as an equivalent (already
// deterministic) NFA whose states are named prefix+"<index>", for merging
// into the scanner's combined automaton.
func dfaToNFA(d automaton.StaticDFA, prefix string) automaton.NFA[struct{}] {
	nfa := automaton.NewNFA[struct{}]()
	name := func(i int) string { return fmt.Sprintf("%s%d", prefix, i) }

	for i := 0; i < d.NumStates(); i++ {
		nfa.AddState(name(i), d.Accepting[i])
	}
	nfa.Start = name(d.Start)

	for i := 0; i < d.NumStates(); i++ {
		for sym := 0; sym < 128; sym++ {
			if to, ok := d.Next(i, byte(sym)); ok {
				nfa.AddTransition(name(i), byte(sym), name(to))
			}
		}
	}

	return *nfa
}

// TokenName returns the declared name of a token id, for diagnostics.
func (s *Scanner) TokenName(id int) string {
	if id < 0 || id >= len(s.names) {
		return fmt.Sprintf("<token %d>", id)
	}
	return s.names[id]
}

// IsIgnored reports whether id is in the scanner's ignored-token set.
func (s *Scanner) IsIgnored(id int) bool {
	return s.ignored[id]
}

// DFA exposes the frozen automaton driving this scanner, for callers that
// need to serialize it (package serialize).
func (s *Scanner) DFA() automaton.StaticDFA { return s.dfa }

// IgnoredIDs returns the scanner's ignored-token ids, in ascending order.
func (s *Scanner) IgnoredIDs() []int {
	ids := make([]int, 0, len(s.ignored))
	for id := range s.ignored {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Names returns the declared token names, indexed by token id.
func (s *Scanner) Names() []string { return s.names }

// FromParts reconstructs a Scanner from a previously-frozen automaton, its
// ignored-token set, and declared names — the inverse of DFA/IgnoredIDs/
// Names, used by package serialize to rebuild a Scanner from a decoded blob
// without recompiling any regex.
func FromParts(dfa automaton.StaticDFA, ignoredIDs []int, names []string) *Scanner {
	ignored := make(map[int]bool, len(ignoredIDs))
	for _, id := range ignoredIDs {
		ignored[id] = true
	}
	return &Scanner{dfa: dfa, ignored: ignored, names: names}
}

// WithNames returns a shallow copy of s with its diagnostic token names
// replaced. Used by package serialize: the scanner blob carries no names of
// its own (spec.md 6), so a combined blob's decoder attaches the names it
// decoded separately after rebuilding the bare Scanner.
func (s *Scanner) WithNames(names []string) *Scanner {
	cp := *s
	cp.names = names
	return &cp
}

// Next produces the next non-ignored token from in, per spec.md 4.3's
// longest-match-wins algorithm. The second return value is false with a nil
// error to signal "no more tokens" (clean end of input).
func (s *Scanner) Next(in Input) (Token, bool, error) {
	for {
		tok, ok, err := s.scanOne(in)
		if err != nil || !ok {
			return tok, ok, err
		}
		if s.ignored[tok.ID] {
			continue
		}
		return tok, true, nil
	}
}

func (s *Scanner) scanOne(in Input) (Token, bool, error) {
	in.Mark()
	name, line, col := in.Location()

	state := s.dfa.Start
	matched := 0
	lastAcceptMatched := -1
	lastAcceptState := -1
	var lexeme []byte
	totalRead := 0
	var lastByte byte

	for {
		b := in.ReadByte()
		totalRead++
		lastByte = b

		if b == 0 {
			break
		}
		next, ok := s.dfa.Next(state, b)
		if !ok {
			break
		}
		state = next
		matched++
		lexeme = append(lexeme, b)
		if s.dfa.Accepting[state] {
			lastAcceptMatched = matched
			lastAcceptState = state
		}
	}

	if lastAcceptMatched < 0 {
		if totalRead == 1 && lastByte == 0 {
			return Token{}, false, nil
		}
		return Token{}, false, perrors.New(
			perrors.LexicalError, name, line, col, "",
			fmt.Sprintf("unexpected character %q", string(lastByte)),
		)
	}

	in.Rewind(uint32(lastAcceptMatched))

	return Token{
		ID:     s.dfa.Value[lastAcceptState],
		Lexeme: string(lexeme[:lastAcceptMatched]),
		Loc:    Location{Name: name, Line: line, Col: col},
	}, true, nil
}
