package parse

import (
	"strings"
	"testing"

	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/pgen/lex"
	"github.com/stretchr/testify/assert"
)

// buildArithmeticGrammar is spec.md 8's literal seed scenario 5's grammar:
// E -> E "+" T | T; T -> T "*" F | F; F -> "(" E ")" | id.
func buildArithmeticGrammar() (g *grammar.Grammar, e, tNT, f, plus, star, lparen, rparen, id int) {
	g = grammar.New()
	plus = g.AddToken("+")
	star = g.AddToken("*")
	lparen = g.AddToken("(")
	rparen = g.AddToken(")")
	id = g.AddToken("id")

	e = g.AddNonTerminal("E")
	tNT = g.AddNonTerminal("T")
	f = g.AddNonTerminal("F")
	g.SetStart(e)

	g.AddRule(e, []grammar.Sym{grammar.NT(e), grammar.Tok(plus), grammar.NT(tNT)})
	g.AddRule(e, []grammar.Sym{grammar.NT(tNT)})
	g.AddRule(tNT, []grammar.Sym{grammar.NT(tNT), grammar.Tok(star), grammar.NT(f)})
	g.AddRule(tNT, []grammar.Sym{grammar.NT(f)})
	g.AddRule(f, []grammar.Sym{grammar.Tok(lparen), grammar.NT(e), grammar.Tok(rparen)})
	g.AddRule(f, []grammar.Sym{grammar.Tok(id)})

	return
}

func buildArithmeticScanner(t *testing.T) *lex.Scanner {
	t.Helper()
	s, err := lex.Build([]lex.Rule{
		{Name: "+", Pattern: `\+`},
		{Name: "*", Pattern: `\*`},
		{Name: "(", Pattern: `\(`},
		{Name: ")", Pattern: `\)`},
		{Name: "id", Pattern: `\w[\w\d]*`},
		{Name: "WS", Pattern: `\s+`, Ignore: true},
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return s
}

func Test_SLR1_Build_NoConflicts(t *testing.T) {
	g, e, _, _, _, _, _, _, _ := buildArithmeticGrammar()
	_, report, err := BuildSLR1(g, e)
	assert.NoError(t, err)
	assert.False(t, report.HasConflicts())
}

// Test_SLR1_SeedScenario is spec.md 8's literal seed scenario 5: input
// "id + id * id" produces a left-skewed "+" at the root with "*" nested in
// its right T.
func Test_SLR1_SeedScenario(t *testing.T) {
	g, e, tNT, f, plus, _, _, _, id := buildArithmeticGrammar()
	table, report, err := BuildSLR1(g, e)
	if !assert.NoError(t, err) || !assert.False(t, report.HasConflicts()) {
		return
	}

	scanner := buildArithmeticScanner(t)
	in := lex.NewReader("t", strings.NewReader("id + id * id"))

	var reduceOrder []int
	res := table.Parse(scanner, in, false, func(n *Node) {
		reduceOrder = append(reduceOrder, n.NonTerminal)
	})
	if !assert.Empty(t, res.Errors) || !assert.NotNil(t, res.Tree) {
		return
	}

	root := res.Tree
	assert.Equal(t, e, root.NonTerminal)
	if !assert.Len(t, root.Children, 3) {
		return
	}
	left, op, right := root.Children[0], root.Children[1], root.Children[2]
	assert.Equal(t, e, left.NonTerminal)
	assert.Equal(t, plus, op.TokenID)
	assert.Equal(t, tNT, right.NonTerminal)

	// left: E -> T -> F -> id
	assert.Equal(t, tNT, mustSingleNTChild(t, left).NonTerminal)

	// right: T -> T * F, i.e. three children (T, *, F)
	if !assert.Len(t, right.Children, 3) {
		return
	}
	assert.Equal(t, tNT, right.Children[0].NonTerminal)
	assert.Equal(t, f, right.Children[2].NonTerminal)

	// reductions happen bottom-up: the root's rule fires last.
	if assert.NotEmpty(t, reduceOrder) {
		assert.Equal(t, e, reduceOrder[len(reduceOrder)-1])
	}
	assert.Equal(t, id, mustTokenDescendant(t, root).TokenID)
}

func mustSingleNTChild(t *testing.T, n *Node) *Node {
	t.Helper()
	if !assert.Len(t, n.Children, 1) {
		t.FailNow()
	}
	return n.Children[0]
}

func mustTokenDescendant(t *testing.T, n *Node) *Node {
	t.Helper()
	for n.Kind == NonTerminalNode {
		if !assert.NotEmpty(t, n.Children) {
			t.FailNow()
		}
		n = n.Children[0]
	}
	return n
}

func Test_SLR1_Parse_Error(t *testing.T) {
	g, e, _, _, _, _, _, _, _ := buildArithmeticGrammar()
	table, _, err := BuildSLR1(g, e)
	if !assert.NoError(t, err) {
		return
	}
	scanner := buildArithmeticScanner(t)

	in := lex.NewReader("t", strings.NewReader("id +"))
	res := table.Parse(scanner, in, false, nil)
	assert.Nil(t, res.Tree)
	assert.NotEmpty(t, res.Errors)
}
