package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/pgen/symbol"
)

// StaticDFA is the frozen, dense form spec.md's data model calls for: a
// transition table indexed by [state][symbol] over the fixed alphabet, plus
// parallel accept/value arrays. States are small contiguous integers 0..N-1;
// state 0 is always the start state. This is the representation the regex
// compiler and the scanner drive at match time — no map lookups on the hot
// path.
type StaticDFA struct {
	// Trans[state][symbol] is the successor state, or symbol.Reject if none.
	Trans [][]int
	// Accepting[state] is true if state is an accepting state.
	Accepting []bool
	// Value[state] holds the caller-supplied payload for state (e.g. a
	// token id for scanner automata); zero value for non-accepting or
	// unvalued states.
	Value []int
	// Start is always 0.
	Start int
}

// NumStates returns the number of states in the automaton.
func (d StaticDFA) NumStates() int {
	return len(d.Trans)
}

// Next returns the successor of state on sym, or (-1, false) if there is no
// such transition.
func (d StaticDFA) Next(state int, sym byte) (int, bool) {
	if state < 0 || state >= len(d.Trans) {
		return symbol.Reject, false
	}
	to := d.Trans[state][sym]
	if to == symbol.Reject {
		return symbol.Reject, false
	}
	return to, true
}

// Freeze converts a generic DFA[E] into a StaticDFA with dense integer state
// ids assigned in the DFA's declaration order (state 0 is always dfa.Start).
// toValue extracts the integer payload to store per accepting state (e.g.
// the token id for a scanner automaton); it is called only for accepting
// states.
func Freeze[E any](dfa DFA[E], toValue func(E) int) (StaticDFA, map[string]int) {
	names := dfa.States()

	ordered := make([]string, 0, len(names))
	ordered = append(ordered, dfa.Start)
	for _, n := range names {
		if n != dfa.Start {
			ordered = append(ordered, n)
		}
	}

	index := make(map[string]int, len(ordered))
	for i, n := range ordered {
		index[n] = i
	}

	alphabet := symbol.AlphabetSize

	out := StaticDFA{
		Trans:     make([][]int, len(ordered)),
		Accepting: make([]bool, len(ordered)),
		Value:     make([]int, len(ordered)),
		Start:     0,
	}

	for i, n := range ordered {
		row := make([]int, alphabet)
		for s := range row {
			row[s] = symbol.Reject
		}
		st := dfa.states[n]
		for sym, to := range st.trans {
			if int(sym) >= alphabet {
				panic(fmt.Sprintf("automaton: symbol %d out of range for alphabet size %d", sym, alphabet))
			}
			row[sym] = index[to]
		}
		out.Trans[i] = row
		out.Accepting[i] = st.accepting
		if st.accepting && toValue != nil {
			out.Value[i] = toValue(st.value)
		}
	}

	return out, index
}

// Reachable returns the set of state indices reachable from the start
// state. Used by validation/test code to catch dead states left over from
// construction bugs, grounded on the teacher's reachability checks in
// dfa.go's Validate.
func (d StaticDFA) Reachable() []int {
	seen := make([]bool, len(d.Trans))
	var stack []int
	stack = append(stack, d.Start)
	seen[d.Start] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range d.Trans[cur] {
			if to >= 0 && !seen[to] {
				seen[to] = true
				stack = append(stack, to)
			}
		}
	}
	out := make([]int, 0, len(d.Trans))
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
