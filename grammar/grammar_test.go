package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildNullableGrammar builds spec.md 8's literal seed grammar:
//
//	S -> A a
//	A -> S | B C
//	B -> b | ε
//	C -> c | ε
func buildNullableGrammar() (*Grammar, map[string]int, map[string]int) {
	g := New()

	tok := map[string]int{
		"a": g.AddToken("a"),
		"b": g.AddToken("b"),
		"c": g.AddToken("c"),
	}
	nt := map[string]int{
		"S": g.AddNonTerminal("S"),
		"A": g.AddNonTerminal("A"),
		"B": g.AddNonTerminal("B"),
		"C": g.AddNonTerminal("C"),
	}
	g.SetStart(nt["S"])

	g.AddRule(nt["S"], []Sym{NT(nt["A"]), Tok(tok["a"])})
	g.AddRule(nt["A"], []Sym{NT(nt["S"])})
	g.AddRule(nt["A"], []Sym{NT(nt["B"]), NT(nt["C"])})
	g.AddRule(nt["B"], []Sym{Tok(tok["b"])})
	g.AddRule(nt["B"], []Sym{})
	g.AddRule(nt["C"], []Sym{Tok(tok["c"])})
	g.AddRule(nt["C"], []Sym{})

	return g, tok, nt
}

func Test_Grammar_Validate_OK(t *testing.T) {
	g, _, _ := buildNullableGrammar()
	assert.NoError(t, g.Validate())
}

func Test_Grammar_Validate_UndeclaredNonTerminal(t *testing.T) {
	g := New()
	a := g.AddToken("a")
	s := g.AddNonTerminal("S")
	g.SetStart(s)
	g.AddRule(s, []Sym{Tok(a), NT(99)})

	assert.Error(t, g.Validate())
}

func Test_Grammar_Validate_NonTerminalNeverDefined(t *testing.T) {
	g := New()
	s := g.AddNonTerminal("S")
	unused := g.AddNonTerminal("Unused")
	_ = unused
	g.SetStart(s)
	g.AddRule(s, []Sym{})

	assert.Error(t, g.Validate())
}

func Test_Grammar_FIRST(t *testing.T) {
	g, tok, nt := buildNullableGrammar()
	first := g.FIRST()

	assert.ElementsMatch(t, []int{tok["a"], tok["b"], tok["c"]}, setToSlice(first.Tokens(nt["S"])))
}

func Test_Grammar_FOLLOW(t *testing.T) {
	g, tok, nt := buildNullableGrammar()
	first := g.FIRST()
	follow := g.FOLLOW(first)

	assert.ElementsMatch(t, []int{tok["a"], tok["c"]}, setToSlice(follow.Tokens(nt["B"])))
}

func setToSlice(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
