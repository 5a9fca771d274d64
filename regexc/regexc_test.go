package regexc

import (
	"testing"

	"github.com/dekarrin/pgen/automaton"
	"github.com/stretchr/testify/assert"
)

func runMatch(t *testing.T, dfa automaton.StaticDFA, s string) bool {
	t.Helper()
	state := dfa.Start
	for i := 0; i < len(s); i++ {
		next, ok := dfa.Next(state, s[i])
		if !ok {
			return false
		}
		state = next
	}
	return dfa.Accepting[state]
}

func Test_Compile_SingleLiteral(t *testing.T) {
	dfa, err := Compile("a")
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, "a"))
	assert.False(runMatch(t, dfa, "b"))
	assert.False(runMatch(t, dfa, ""))
}

func Test_Compile_Alternation(t *testing.T) {
	dfa, err := Compile("a|b")
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, "a"))
	assert.True(runMatch(t, dfa, "b"))
	assert.False(runMatch(t, dfa, "c"))
}

func Test_Compile_Star(t *testing.T) {
	dfa, err := Compile("a*")
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, ""))
	assert.True(runMatch(t, dfa, "aaa"))
	assert.False(runMatch(t, dfa, "aab"))
}

func Test_Compile_Plus(t *testing.T) {
	dfa, err := Compile("a+")
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.False(runMatch(t, dfa, ""))
	assert.True(runMatch(t, dfa, "a"))
	assert.True(runMatch(t, dfa, "aaaa"))
}

func Test_Compile_CharacterClassAndEscape(t *testing.T) {
	// this grammar's character classes are explicit symbol lists (no a-z
	// range syntax), so an identifier pattern spells out "letter or
	// underscore, then letters/underscore/digits" via escape expansion
	// inside the trailing class.
	dfa, err := Compile(`\w[\w\d]*`)
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, "foo_Bar1"))
	assert.False(runMatch(t, dfa, "1foo"))
}

// Test_Compile_ConcatenationBindsTighterThanAlternation checks that an
// unparenthesized multi-symbol expression before a '|' concatenates first:
// "ab|c" must match {ab, c}, not {ab, ac}.
func Test_Compile_ConcatenationBindsTighterThanAlternation(t *testing.T) {
	dfa, err := Compile("ab|c")
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, "ab"))
	assert.True(runMatch(t, dfa, "c"))
	assert.False(runMatch(t, dfa, "ac"))
	assert.False(runMatch(t, dfa, "a"))
	assert.False(runMatch(t, dfa, "b"))
}

func Test_Compile_NegatedClass(t *testing.T) {
	dfa, err := Compile(`[^abcdefghijklmnopqrstuvwxyz]`)
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(runMatch(t, dfa, "A"))
	assert.False(runMatch(t, dfa, "m"))
}

// Test_Compile_ParityAutomaton is spec.md 8's literal seed scenario 1: after
// minimization the DFA for (b*ab*ab*)*|(a*ba*ba*)*ba* has exactly 4 states
// (tracking the parity of 'a' count and 'b' count), accepts "", "aa", "ba",
// "abab", and rejects "a", "abb", "ababa".
func Test_Compile_ParityAutomaton(t *testing.T) {
	dfa, err := Compile(`(b*ab*ab*)*|(a*ba*ba*)*ba*`)
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(4, dfa.NumStates())

	accepted := []string{"", "aa", "ba", "abab"}
	rejected := []string{"a", "abb", "ababa"}

	for _, s := range accepted {
		assert.True(runMatch(t, dfa, s), "expected %q to be accepted", s)
	}
	for _, s := range rejected {
		assert.False(runMatch(t, dfa, s), "expected %q to be rejected", s)
	}
}
