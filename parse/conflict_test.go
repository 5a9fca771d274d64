package parse

import (
	"testing"

	"github.com/dekarrin/pgen/grammar"
	"github.com/stretchr/testify/assert"
)

func buildTinyGrammarForConflicts() *grammar.Grammar {
	g := grammar.New()
	g.AddToken("a")
	s := g.AddNonTerminal("S")
	g.SetStart(s)
	g.AddRule(s, nil)
	g.AddRule(s, nil)
	return g
}

func Test_ConflictReport_EmptyByDefault(t *testing.T) {
	g := buildTinyGrammarForConflicts()
	r := NewConflictReport(g, true)
	assert.False(t, r.HasConflicts())
	assert.Equal(t, 0, r.Count())
	assert.Equal(t, "no conflicts", r.Render(40))
}

func Test_ConflictReport_NoteAccumulatesAndDedups(t *testing.T) {
	g := buildTinyGrammarForConflicts()
	r := NewConflictReport(g, true)

	r.Note(0, 0, []int{0, 1}, 0)
	r.Note(0, 0, []int{0, 1}, 0) // same cell again, same rules
	r.Note(0, 0, []int{1, 2}, 0) // new rule id 2 added to same cell

	assert.True(t, r.HasConflicts())
	assert.Equal(t, 1, r.Count())

	entries := r.Entries()
	if assert.Len(t, entries, 1) {
		assert.ElementsMatch(t, []int{0, 1, 2}, entries[0].Rules)
	}
}

func Test_ConflictReport_Render_IncludesRowsAndDefault(t *testing.T) {
	g := buildTinyGrammarForConflicts()
	r := NewConflictReport(g, true)
	r.Note(0, 0, []int{0, 1}, 0)

	out := r.Render(0) // width<=0 falls back to a usable default
	assert.Contains(t, out, "S")
	assert.Contains(t, out, "a")
}

func Test_ConflictReport_ShiftSentinelLabel(t *testing.T) {
	g := buildTinyGrammarForConflicts()
	r := NewConflictReport(g, false) // SLR(1) mode: rows are state ids
	r.Note(3, 0, []int{ShiftSentinel, 0}, ShiftSentinel)

	out := r.Render(40)
	assert.Contains(t, out, "SHIFT")
	assert.Contains(t, out, "state 3")
}
