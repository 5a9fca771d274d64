package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NFA_EpsilonClosure(t *testing.T) {
	nfa := NewNFA[int]()
	nfa.AddState("0", false)
	nfa.AddState("1", false)
	nfa.AddState("2", true)
	nfa.Start = "0"
	nfa.AddEpsilon("0", "1")
	nfa.AddEpsilon("1", "2")

	closure := nfa.EpsilonClosure("0")

	assert.ElementsMatch(t, []string{"0", "1", "2"}, keys(closure))
}

func Test_NFA_Determinize_SimpleConcat(t *testing.T) {
	// a followed by b, via Concat of two single-symbol NFAs
	a := singleSymbolNFA('a')
	b := singleSymbolNFA('b')
	ab := Concat[int](a, b)

	free := ab.RemoveEpsilons()
	dfa, _ := free.Determinize()

	assert := assert.New(t)

	cur := dfa.Start
	next, ok := dfa.Next(cur, 'a')
	assert.True(ok)
	cur = next

	next, ok = dfa.Next(cur, 'b')
	assert.True(ok)
	cur = next

	assert.True(dfa.IsAccepting(cur))
}

func Test_NFA_Union(t *testing.T) {
	a := singleSymbolNFA('a')
	b := singleSymbolNFA('b')
	alt := Union[int](a, b)
	free := alt.RemoveEpsilons()
	dfa, _ := free.Determinize()

	assert := assert.New(t)

	if next, ok := dfa.Next(dfa.Start, 'a'); ok {
		assert.True(dfa.IsAccepting(next))
	} else {
		t.Fatal("expected transition on 'a' from start")
	}
	if next, ok := dfa.Next(dfa.Start, 'b'); ok {
		assert.True(dfa.IsAccepting(next))
	} else {
		t.Fatal("expected transition on 'b' from start")
	}
}

func Test_NFA_Closure_MatchesEmptyAndRepeats(t *testing.T) {
	a := singleSymbolNFA('a')
	star := Closure[int](a)
	free := star.RemoveEpsilons()
	dfa, _ := free.Determinize()

	assert.True(t, dfa.IsAccepting(dfa.Start), "start state of a* must accept the empty string")

	cur := dfa.Start
	for i := 0; i < 3; i++ {
		next, ok := dfa.Next(cur, 'a')
		if !ok {
			t.Fatalf("expected transition on 'a' at repeat %d", i)
		}
		cur = next
	}
	assert.True(t, dfa.IsAccepting(cur))
}

func singleSymbolNFA(sym byte) NFA[int] {
	nfa := NewNFA[int]()
	nfa.AddState("s0", false)
	nfa.AddState("s1", true)
	nfa.Start = "s0"
	nfa.AddTransition("s0", sym, "s1")
	return *nfa
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
