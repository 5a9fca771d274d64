package serialize

import (
	"strings"
	"testing"

	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/pgen/lex"
	"github.com/dekarrin/pgen/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSLR1TestGrammar is the classic dangling-expression arithmetic
// grammar: E -> E + T | T; T -> T * F | F; F -> ( E ) | id.
func buildSLR1TestGrammar() (g *grammar.Grammar, root int) {
	g = grammar.New()
	plus := g.AddToken("+")
	star := g.AddToken("*")
	lparen := g.AddToken("(")
	rparen := g.AddToken(")")
	id := g.AddToken("id")

	e := g.AddNonTerminal("E")
	tt := g.AddNonTerminal("T")
	f := g.AddNonTerminal("F")
	g.SetStart(e)

	g.AddRule(e, []grammar.Sym{grammar.NT(e), grammar.Tok(plus), grammar.NT(tt)})
	g.AddRule(e, []grammar.Sym{grammar.NT(tt)})
	g.AddRule(tt, []grammar.Sym{grammar.NT(tt), grammar.Tok(star), grammar.NT(f)})
	g.AddRule(tt, []grammar.Sym{grammar.NT(f)})
	g.AddRule(f, []grammar.Sym{grammar.Tok(lparen), grammar.NT(e), grammar.Tok(rparen)})
	g.AddRule(f, []grammar.Sym{grammar.Tok(id)})

	return g, e
}

func buildSLR1TestScanner(t *testing.T) *lex.Scanner {
	t.Helper()
	s, err := lex.Build([]lex.Rule{
		{Name: "+", Pattern: "+"},
		{Name: "*", Pattern: "*"},
		{Name: "(", Pattern: `\(`},
		{Name: ")", Pattern: `\)`},
		{Name: "id", Pattern: `\w[\w\d]*`},
		{Name: "WS", Pattern: " ", Ignore: true},
	})
	require.NoError(t, err)
	return s
}

func Test_SLR1Blob_RoundTrip_TablesMatch(t *testing.T) {
	g, root := buildSLR1TestGrammar()
	table, report, err := parse.BuildSLR1(g, root)
	require.NoError(t, err)
	require.False(t, report.HasConflicts())

	data, err := NewSLR1Blob(table).MarshalBinary()
	require.NoError(t, err)

	var decoded SLR1Blob
	require.NoError(t, decoded.UnmarshalBinary(data))

	for s := 0; s < table.NumStates(); s++ {
		for tok := 0; tok <= g.NumTokens(); tok++ {
			want := table.Action(s, tok)
			got := decoded.Table().Action(s, tok)
			assert.Equal(t, want, got, "state=%d tok=%d", s, tok)
		}
		for nt := 0; nt < g.NumNonTerminals(); nt++ {
			wantState, wantOK := table.Goto(s, nt)
			gotState, gotOK := decoded.Table().Goto(s, nt)
			assert.Equal(t, wantOK, gotOK, "state=%d nt=%d", s, nt)
			if wantOK {
				assert.Equal(t, wantState, gotState, "state=%d nt=%d", s, nt)
			}
		}
	}
}

func Test_SLR1Blob_RoundTrip_Parses(t *testing.T) {
	g, root := buildSLR1TestGrammar()
	table, report, err := parse.BuildSLR1(g, root)
	require.NoError(t, err)
	require.False(t, report.HasConflicts())

	data, err := NewSLR1Blob(table).MarshalBinary()
	require.NoError(t, err)
	var decoded SLR1Blob
	require.NoError(t, decoded.UnmarshalBinary(data))

	scanner := buildSLR1TestScanner(t)
	in := lex.NewReader("t", strings.NewReader("id + id * id"))
	res := decoded.Table().Parse(scanner, in, false, nil)

	require.Empty(t, res.Errors)
	require.NotNil(t, res.Tree)
	assert.Equal(t, root, res.Tree.NonTerminal)
}
